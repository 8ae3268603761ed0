package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/phrazzld/courier/internal/correlation"
	"github.com/phrazzld/courier/internal/ledger"
	"github.com/phrazzld/courier/internal/platform/logger"
	"github.com/phrazzld/courier/internal/redact"
	"github.com/phrazzld/courier/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	wsBufferSize   = 1024

	// DefaultWatchTimeout bounds how long a watch stays open without a
	// resolution.
	DefaultWatchTimeout = 5 * time.Minute
)

// Watcher hands out resolution notices for a request ID.
// *service.Notifier satisfies it.
type Watcher interface {
	Watch(requestID string) (<-chan ledger.Entry, func())
}

// WatchHandler streams a request's resolution over a websocket.
type WatchHandler struct {
	watcher  Watcher
	status   service.StatusService
	timeout  time.Duration
	upgrader websocket.Upgrader

	stopping chan struct{}
	stopOnce sync.Once
}

// NewWatchHandler creates a new WatchHandler. A non-positive timeout uses
// DefaultWatchTimeout.
func NewWatchHandler(watcher Watcher, status service.StatusService, timeout time.Duration) *WatchHandler {
	if timeout <= 0 {
		timeout = DefaultWatchTimeout
	}
	return &WatchHandler{
		watcher: watcher,
		status:  status,
		timeout: timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  wsBufferSize,
			WriteBufferSize: wsBufferSize,
		},
		stopping: make(chan struct{}),
	}
}

// Shutdown closes every open watch with CloseGoingAway. Hijacked websocket
// connections are invisible to http.Server.Shutdown, so register this with
// http.Server.RegisterOnShutdown. Watches opened afterwards close at once.
func (h *WatchHandler) Shutdown() {
	h.stopOnce.Do(func() { close(h.stopping) })
}

// Watch handles GET /api/requests/{id}/watch. The socket receives the
// request's status once it is resolved (immediately if it already is) and
// is then closed. Unknown or malformed IDs are rejected before upgrading.
func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	id, err := correlation.Parse(chi.URLParam(r, "id"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// Subscribe before reading the entry so a resolution in between is not missed.
	resolved, cancel := h.watcher.Watch(id)
	defer cancel()

	entry, err := h.status.Get(ctx, id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		log.WarnContext(ctx, "websocket upgrade failed", redact.Attr(err))
		return
	}
	defer func() { _ = conn.Close() }()

	if entry.Status.Resolved() {
		h.send(conn, entry)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	timeout := time.NewTimer(h.timeout)
	defer timeout.Stop()

	for {
		select {
		case got := <-resolved:
			h.send(conn, &got)
			return

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-timeout.C:
			log.DebugContext(ctx, "watch timed out", "request_id", id)
			closeWith(conn, websocket.CloseGoingAway, "timed out waiting for result")
			return

		case <-h.stopping:
			closeWith(conn, websocket.CloseGoingAway, "server shutting down")
			return

		case <-closed:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (h *WatchHandler) send(conn *websocket.Conn, entry *ledger.Entry) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(statusToResponse(entry)); err != nil {
		return
	}
	closeWith(conn, websocket.CloseNormalClosure, string(entry.Status))
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
}
