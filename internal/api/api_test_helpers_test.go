package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/courier/internal/api/middleware"
	"github.com/phrazzld/courier/internal/config"
	"github.com/phrazzld/courier/internal/correlation"
	"github.com/phrazzld/courier/internal/events"
	"github.com/phrazzld/courier/internal/ledger"
	"github.com/phrazzld/courier/internal/platform/logger"
	"github.com/phrazzld/courier/internal/service"
	"github.com/phrazzld/courier/internal/store"
	"github.com/stretchr/testify/require"
)

const fixedID = "5c6b1d2e-9f3a-4b7c-8d1e-2f3a4b5c6d7e"

var fixedNow = time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

// recordingDispatcher accepts every event, or none when refuse is set.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []*events.Event
	refuse bool
}

func (d *recordingDispatcher) Publish(_ context.Context, e *events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refuse {
		return events.ErrNotAccepted
	}
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(string, string, events.Handler) error { return nil }

func (d *recordingDispatcher) published() []*events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*events.Event(nil), d.events...)
}

type testEnv struct {
	store      *store.MemoryStore
	ledger     *ledger.Ledger
	notifier   *service.Notifier
	dispatcher *recordingDispatcher
	logs       *logger.TestLogBuffer
	watch      *WatchHandler
	router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, buf := logger.GetTestLogger(t)

	st := store.NewMemoryStore()
	notifier := service.NewNotifier()
	l := ledger.New(st, log, ledger.WithClock(func() time.Time { return fixedNow }), ledger.WithObserver(notifier))
	d := &recordingDispatcher{}
	ids := service.WithIDGenerator(correlation.GeneratorFunc(func() string { return fixedID }))

	usernames, err := service.NewUsernameService(d, l, log, ids)
	require.NoError(t, err)
	greetings, err := service.NewGreetingService(d, l, config.AppConfig{Name: "Courier", GreetingPrefix: "Hello"}, log,
		ids, service.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	status, err := service.NewStatusService(st, l, log)
	require.NoError(t, err)

	watch := NewWatchHandler(notifier, status, time.Second)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	Handlers{
		Usernames: NewUsernameHandler(usernames),
		Hello:     NewHelloHandler(greetings),
		Status:    NewStatusHandler(status),
		Watch:     watch,
	}.Register(r)

	return &testEnv{
		store:      st,
		ledger:     l,
		notifier:   notifier,
		dispatcher: d,
		logs:       buf,
		watch:      watch,
		router:     r,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
