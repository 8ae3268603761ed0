// Package storetest holds behaviour checks shared by every store.StateStore
// implementation.
package storetest

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/courier/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Theme       string    `json:"theme"`
	Usernames   []string  `json:"usernames"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Run exercises s against the StateStore contract. Namespaces are derived
// from prefix so several runs can share one backend.
func Run(t *testing.T, s store.StateStore, prefix string) {
	t.Helper()
	ctx := context.Background()
	ns := func(name string) string { return prefix + "-" + name }

	t.Run("SetThenGet", func(t *testing.T) {
		want := record{
			Theme:       "gaming",
			Usernames:   []string{"a", "b", "c"},
			GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.Set(ctx, ns("usernames"), "req-1", want))

		var got record
		require.NoError(t, s.Get(ctx, ns("usernames"), "req-1", &got))
		assert.Equal(t, want.Theme, got.Theme)
		assert.Equal(t, want.Usernames, got.Usernames)
		assert.True(t, want.GeneratedAt.Equal(got.GeneratedAt))
	})

	t.Run("SetOverwrites", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, ns("overwrite"), "k", record{Theme: "first"}))
		require.NoError(t, s.Set(ctx, ns("overwrite"), "k", record{Theme: "second"}))

		var got record
		require.NoError(t, s.Get(ctx, ns("overwrite"), "k", &got))
		assert.Equal(t, "second", got.Theme)

		all, err := s.List(ctx, ns("overwrite"))
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("GetMissing", func(t *testing.T) {
		var got record
		err := s.Get(ctx, ns("missing"), "nope", &got)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("NamespacesAreIsolated", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, ns("left"), "shared", record{Theme: "left"}))
		require.NoError(t, s.Set(ctx, ns("right"), "shared", record{Theme: "right"}))

		var got record
		require.NoError(t, s.Get(ctx, ns("left"), "shared", &got))
		assert.Equal(t, "left", got.Theme)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, ns("list"), "a", record{Theme: "x"}))
		require.NoError(t, s.Set(ctx, ns("list"), "b", record{Theme: "y"}))

		all, err := s.List(ctx, ns("list"))
		require.NoError(t, err)
		require.Len(t, all, 2)

		var b record
		require.NoError(t, json.Unmarshal(all["b"], &b))
		assert.Equal(t, "y", b.Theme)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		all, err := s.List(ctx, ns("empty"))
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("InvalidAddress", func(t *testing.T) {
		assert.ErrorIs(t, s.Set(ctx, "", "k", 1), store.ErrInvalidEntity)
		assert.ErrorIs(t, s.Set(ctx, ns("bad"), "", 1), store.ErrInvalidEntity)
		assert.ErrorIs(t, s.Set(ctx, ns("bad"), "a/b", 1), store.ErrInvalidEntity)

		var v int
		assert.ErrorIs(t, s.Get(ctx, ns("bad"), "", &v), store.ErrInvalidEntity)

		_, err := s.List(ctx, "")
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("UnencodableValue", func(t *testing.T) {
		err := s.Set(ctx, ns("bad"), "k", func() {})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("ConcurrentWriters", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				key := string(rune('a' + i))
				assert.NoError(t, s.Set(ctx, ns("concurrent"), key, record{Theme: key}))
			}(i)
		}
		wg.Wait()

		all, err := s.List(ctx, ns("concurrent"))
		require.NoError(t, err)
		assert.Len(t, all, 20)
	})
}
