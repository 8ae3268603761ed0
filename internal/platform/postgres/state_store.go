package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/courier/internal/store"
)

// StateStore implements store.StateStore on the state_records table.
type StateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.StateStore = (*StateStore)(nil)

// NewStateStore creates a StateStore using db, which may be a *sql.DB or *sql.Tx.
func NewStateStore(db store.DBTX, logger *slog.Logger) *StateStore {
	return &StateStore{
		db:     db,
		logger: logger.With("component", "postgres_state_store"),
	}
}

// Set upserts the value. created_at is kept from the first write.
func (s *StateStore) Set(ctx context.Context, namespace, key string, value any) error {
	data, err := store.Encode(namespace, key, value)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO state_records (namespace, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.db.ExecContext(ctx, query, namespace, key, data); err != nil {
		s.logger.Error("failed to upsert state record",
			"namespace", namespace,
			"key", key,
			"error", err)
		return store.NewStoreError(namespace, "set", "upsert failed", MapError(err))
	}

	return nil
}

// Get implements store.StateStore.
func (s *StateStore) Get(ctx context.Context, namespace, key string, dest any) error {
	if err := store.ValidateKey(namespace, key); err != nil {
		return err
	}

	query := `SELECT value FROM state_records WHERE namespace = $1 AND key = $2`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, namespace, key).Scan(&data)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return store.ErrNotFound
		}
		return store.NewStoreError(namespace, "get", "query failed", mapped)
	}

	return store.Decode(namespace, key, data, dest)
}

// List implements store.StateStore.
func (s *StateStore) List(ctx context.Context, namespace string) (map[string]json.RawMessage, error) {
	if err := store.ValidateNamespace(namespace); err != nil {
		return nil, err
	}

	query := `SELECT key, value FROM state_records WHERE namespace = $1 ORDER BY key`

	rows, err := s.db.QueryContext(ctx, query, namespace)
	if err != nil {
		return nil, store.NewStoreError(namespace, "list", "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Error("failed to close rows", "namespace", namespace, "error", cerr)
		}
	}()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var (
			key  string
			data []byte
		)
		if err := rows.Scan(&key, &data); err != nil {
			return nil, store.NewStoreError(namespace, "list", "scan failed", MapError(err))
		}
		out[key] = json.RawMessage(data)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(namespace, "list", fmt.Sprintf("iteration failed after %d rows", len(out)), MapError(err))
	}

	return out, nil
}
