package store_test

import (
	"context"
	"testing"

	"github.com/phrazzld/courier/internal/store"
	"github.com/phrazzld/courier/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, store.NewMemoryStore(), "mem")
}

func TestMemoryStore_ListReturnsCopies(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "ns", "k", map[string]string{"v": "original"}))

	all, err := s.List(ctx, "ns")
	require.NoError(t, err)
	copy(all["k"], []byte(`{"v":"tampered"`))

	var got map[string]string
	require.NoError(t, s.Get(ctx, "ns", "k", &got))
	assert.Equal(t, "original", got["v"])
}
