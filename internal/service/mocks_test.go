package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/courier/internal/ledger"
	"github.com/phrazzld/courier/internal/mocks"
	"github.com/phrazzld/courier/internal/platform/logger"
	"github.com/phrazzld/courier/internal/store"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLedger is a mock implementation of RequestLedger.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) OpenWithMetadata(ctx context.Context, requestID, topic string, metadata any) (*ledger.Entry, error) {
	args := m.Called(ctx, requestID, topic, metadata)
	entry, _ := args.Get(0).(*ledger.Entry)
	return entry, args.Error(1)
}

func (m *MockLedger) Get(ctx context.Context, requestID string) (*ledger.Entry, error) {
	args := m.Called(ctx, requestID)
	entry, _ := args.Get(0).(*ledger.Entry)
	return entry, args.Error(1)
}

func (m *MockLedger) Complete(ctx context.Context, requestID string) (*ledger.Entry, error) {
	args := m.Called(ctx, requestID)
	entry, _ := args.Get(0).(*ledger.Entry)
	return entry, args.Error(1)
}

func (m *MockLedger) Fail(ctx context.Context, requestID, reason string) (*ledger.Entry, error) {
	args := m.Called(ctx, requestID, reason)
	entry, _ := args.Get(0).(*ledger.Entry)
	return entry, args.Error(1)
}

// failingStore fails every operation with err.
type failingStore struct {
	err error
}

func (f failingStore) Set(context.Context, string, string, any) error { return f.err }
func (f failingStore) Get(context.Context, string, string, any) error { return f.err }
func (f failingStore) List(context.Context, string) (map[string]json.RawMessage, error) {
	return nil, f.err
}

const (
	testRequestID = "8f4c1f9e-6f0e-4f55-9a55-4b3b4f1f2d10"
	otherID       = "0b7e3b8c-3a0a-4c8e-8f69-2f3d1c1b9e77"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// fixture wires real ledger and store instances around a mocked dispatcher.
type fixture struct {
	store      *store.MemoryStore
	ledger     *ledger.Ledger
	dispatcher *mocks.MockDispatcher
	logs       *logger.TestLogBuffer
	log        *slog.Logger
}

func newFixture(t *testing.T, opts ...ledger.Option) *fixture {
	t.Helper()
	log, buf := logger.GetTestLogger(t)
	st := store.NewMemoryStore()
	opts = append([]ledger.Option{ledger.WithClock(fixedClock)}, opts...)
	return &fixture{
		store:      st,
		ledger:     ledger.New(st, log, opts...),
		dispatcher: &mocks.MockDispatcher{},
		logs:       buf,
		log:        log,
	}
}

func (f *fixture) entry(t *testing.T, id string) *ledger.Entry {
	t.Helper()
	entry, err := f.ledger.Get(context.Background(), id)
	require.NoError(t, err)
	return entry
}
