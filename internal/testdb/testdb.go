package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/courier/internal/redact"
)

// DatabaseURLEnv names the variable that enables database tests.
const DatabaseURLEnv = "COURIER_TEST_DATABASE_URL"

// DatabaseURL returns the configured test database URL, or "".
func DatabaseURL() string {
	return strings.TrimSpace(os.Getenv(DatabaseURLEnv))
}

// RequireDatabaseURL returns the test database URL or skips t.
func RequireDatabaseURL(t testing.TB) string {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		t.Skipf("Skipping integration test - %s environment variable required", DatabaseURLEnv)
	}
	return url
}

// WithTx runs fn inside a transaction that is always rolled back, including
// when fn panics or fails the test.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Database connection failed before transaction (%s): %s",
			redact.String(DatabaseURL()), redact.Error(err))
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("Failed to begin transaction: %s", redact.Error(err))
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
