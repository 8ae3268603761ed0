package blobstore_test

import (
	"context"
	"testing"

	"github.com/phrazzld/courier/internal/platform/blobstore"
	"github.com/phrazzld/courier/internal/platform/logger"
	"github.com/phrazzld/courier/internal/store"
	"github.com/phrazzld/courier/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

func TestStore_Memblob(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	s := blobstore.New(memblob.OpenBucket(nil), "state/", l)
	defer func() { _ = s.Close() }()

	storetest.Run(t, s, "blob")
}

func TestStore_FileBucket(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	ctx := context.Background()

	s, err := blobstore.Open(ctx, "file://"+t.TempDir(), "", l)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	storetest.Run(t, s, "file")
}

func TestStore_ObjectLayout(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	s := blobstore.New(bucket, "state/", l)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Set(ctx, "usernames", "req-1", map[string]string{"theme": "space"}))

	data, err := bucket.ReadAll(ctx, "state/usernames/req-1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"space"}`, string(data))

	attrs, err := bucket.Attributes(ctx, "state/usernames/req-1.json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", attrs.ContentType)
}

func TestStore_ListIgnoresForeignObjects(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	s := blobstore.New(bucket, "", l)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Set(ctx, "requests", "a", 1))
	require.NoError(t, bucket.WriteAll(ctx, "requests/notes.txt", []byte("x"), nil))
	require.NoError(t, bucket.WriteAll(ctx, "requests/nested/b.json", []byte("2"), nil))

	all, err := s.List(ctx, "requests")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.JSONEq(t, "1", string(all["a"]))
}

func TestStore_OpenInvalidURL(t *testing.T) {
	l, _ := logger.GetTestLogger(t)
	_, err := blobstore.Open(context.Background(), "nosuchscheme://bucket", "", l)
	assert.Error(t, err)

	var v int
	s := blobstore.New(memblob.OpenBucket(nil), "", l)
	assert.ErrorIs(t, s.Get(context.Background(), "requests", "missing", &v), store.ErrNotFound)
}
