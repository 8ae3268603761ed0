// Package blobstore implements store.StateStore on gocloud.dev/blob, one
// JSON object per key. Any bucket URL gocloud understands works: s3://,
// gs://, azblob://, file:// and mem://.
package blobstore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/courier/internal/store"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/azureblob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

const objectSuffix = ".json"

// Store is a store.StateStore whose objects are named
// "<prefix><namespace>/<key>.json".
type Store struct {
	bucket *blob.Bucket
	prefix string
	logger *slog.Logger
}

var _ store.StateStore = (*Store)(nil)

// Open opens the bucket at bucketURL.
func Open(ctx context.Context, bucketURL, prefix string, logger *slog.Logger) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, err
	}
	return New(bucket, prefix, logger), nil
}

// New wraps an already opened bucket. The Store owns it from then on.
func New(bucket *blob.Bucket, prefix string, logger *slog.Logger) *Store {
	return &Store{
		bucket: bucket,
		prefix: prefix,
		logger: logger.With("component", "blob_state_store"),
	}
}

// Set implements store.StateStore.
func (s *Store) Set(ctx context.Context, namespace, key string, value any) error {
	data, err := store.Encode(namespace, key, value)
	if err != nil {
		return err
	}

	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := s.bucket.WriteAll(ctx, s.keyFor(namespace, key), data, opts); err != nil {
		s.logger.Error("failed to write state object",
			"namespace", namespace,
			"key", key,
			"error", err)
		return store.NewStoreError(namespace, "set", "write failed", err)
	}
	return nil
}

// Get implements store.StateStore.
func (s *Store) Get(ctx context.Context, namespace, key string, dest any) error {
	if err := store.ValidateKey(namespace, key); err != nil {
		return err
	}

	data, err := s.bucket.ReadAll(ctx, s.keyFor(namespace, key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return store.ErrNotFound
		}
		return store.NewStoreError(namespace, "get", "read failed", err)
	}

	return store.Decode(namespace, key, data, dest)
}

// List implements store.StateStore.
func (s *Store) List(ctx context.Context, namespace string) (map[string]json.RawMessage, error) {
	if err := store.ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	dir := s.prefix + namespace + "/"
	iter := s.bucket.List(&blob.ListOptions{Prefix: dir})

	out := make(map[string]json.RawMessage)
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, store.NewStoreError(namespace, "list", "listing failed", err)
		}
		if obj.IsDir || !strings.HasSuffix(obj.Key, objectSuffix) {
			continue
		}

		key := strings.TrimSuffix(strings.TrimPrefix(obj.Key, dir), objectSuffix)
		if strings.Contains(key, "/") {
			continue
		}

		data, err := s.bucket.ReadAll(ctx, obj.Key)
		if err != nil {
			// Deleted between listing and reading.
			if gcerrors.Code(err) == gcerrors.NotFound {
				continue
			}
			return nil, store.NewStoreError(namespace, "list", "read failed", err)
		}
		out[key] = json.RawMessage(data)
	}

	return out, nil
}

// Close releases the bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

func (s *Store) keyFor(namespace, key string) string {
	return s.prefix + namespace + "/" + key + objectSuffix
}
