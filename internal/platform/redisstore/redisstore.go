// Package redisstore implements store.StateStore on Redis, keeping one hash
// per namespace.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/courier/internal/store"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every hash this store writes.
const DefaultPrefix = "courier"

// Store is a store.StateStore backed by Redis hashes named
// "<prefix>:<namespace>" whose fields are the keys.
type Store struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

var _ store.StateStore = (*Store)(nil)

// NewClient returns a client for addr using RESP2, which every Redis-
// compatible server (including miniredis) speaks.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:            addr,
		Protocol:        2,
		DisableIdentity: true,
	})
}

// New wraps client. An empty prefix uses DefaultPrefix.
func New(client redis.UniversalClient, prefix string, logger *slog.Logger) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "redis_state_store"),
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) hashKey(namespace string) string {
	return s.prefix + ":" + namespace
}

// Set implements store.StateStore.
func (s *Store) Set(ctx context.Context, namespace, key string, value any) error {
	data, err := store.Encode(namespace, key, value)
	if err != nil {
		return err
	}

	if err := s.client.HSet(ctx, s.hashKey(namespace), key, data).Err(); err != nil {
		s.logger.Error("failed to write state record",
			"namespace", namespace,
			"key", key,
			"error", err)
		return store.NewStoreError(namespace, "set", "HSET failed", err)
	}
	return nil
}

// Get implements store.StateStore.
func (s *Store) Get(ctx context.Context, namespace, key string, dest any) error {
	if err := store.ValidateKey(namespace, key); err != nil {
		return err
	}

	data, err := s.client.HGet(ctx, s.hashKey(namespace), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return store.ErrNotFound
		}
		return store.NewStoreError(namespace, "get", "HGET failed", err)
	}

	return store.Decode(namespace, key, data, dest)
}

// List implements store.StateStore.
func (s *Store) List(ctx context.Context, namespace string) (map[string]json.RawMessage, error) {
	if err := store.ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	fields, err := s.client.HGetAll(ctx, s.hashKey(namespace)).Result()
	if err != nil {
		return nil, store.NewStoreError(namespace, "list", "HGETALL failed", err)
	}

	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		out[k] = json.RawMessage(v)
	}
	return out, nil
}
