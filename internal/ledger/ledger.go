package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/phrazzld/courier/internal/store"
)

// Namespace is where entries live in the State Store.
const Namespace = "requests"

// Status is the lifecycle state of a request.
type Status string

// Possible status values
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
)

// Resolved reports whether the status is terminal.
func (s Status) Resolved() bool {
	return s != StatusPending
}

var (
	// ErrUnknownRequest is returned for an id the ledger never opened.
	ErrUnknownRequest = errors.New("unknown request")

	// ErrAlreadyResolved is returned when resolving an entry that was
	// already resolved.
	ErrAlreadyResolved = errors.New("request already resolved")

	// ErrLateResult is returned when resolving an entry the sweeper already
	// expired.
	ErrLateResult = errors.New("result arrived after expiry")

	// ErrNoMetadata is returned by DecodeMetadata for entries opened without
	// metadata.
	ErrNoMetadata = errors.New("entry has no metadata")
)

// Entry is the ledger's record of one request.
type Entry struct {
	RequestID string `json:"requestId"`
	Topic     string `json:"topic"`
	Status    Status `json:"status"`
	Error     string `json:"error,omitempty"`
	// Metadata is the dispatched payload, kept so results that omit it can
	// be completed from the request.
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// DecodeMetadata unmarshals the entry's metadata into v.
func (e *Entry) DecodeMetadata(v any) error {
	if len(e.Metadata) == 0 {
		return ErrNoMetadata
	}
	if err := json.Unmarshal(e.Metadata, v); err != nil {
		return fmt.Errorf("failed to decode metadata for %s: %w", e.RequestID, err)
	}
	return nil
}

// Observer is told about every entry that reaches a terminal status.
type Observer interface {
	EntryResolved(entry Entry)
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithObserver registers o for resolution notices.
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		l.observers = append(l.observers, o)
	}
}

// Ledger records request lifecycles in a StateStore.
type Ledger struct {
	store     store.StateStore
	logger    *slog.Logger
	now       func() time.Time
	observers []Observer
}

// New creates a Ledger on s.
func New(s store.StateStore, logger *slog.Logger, opts ...Option) *Ledger {
	l := &Ledger{
		store:  s,
		logger: logger.With("component", "ledger"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open records a pending entry for requestID, dispatched on topic.
func (l *Ledger) Open(ctx context.Context, requestID, topic string) (*Entry, error) {
	return l.OpenWithMetadata(ctx, requestID, topic, nil)
}

// OpenWithMetadata is Open that also keeps metadata, JSON-encoded, on the
// entry. A nil metadata stores none.
func (l *Ledger) OpenWithMetadata(ctx context.Context, requestID, topic string, metadata any) (*Entry, error) {
	now := l.now().UTC()
	entry := &Entry{
		RequestID: requestID,
		Topic:     topic,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode ledger metadata: %w", err)
		}
		entry.Metadata = raw
	}

	if err := l.store.Set(ctx, Namespace, requestID, entry); err != nil {
		return nil, fmt.Errorf("failed to open ledger entry: %w", err)
	}
	return entry, nil
}

// Get returns the entry for requestID, or ErrUnknownRequest.
func (l *Ledger) Get(ctx context.Context, requestID string) (*Entry, error) {
	var entry Entry
	if err := l.store.Get(ctx, Namespace, requestID, &entry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRequest, requestID)
		}
		return nil, fmt.Errorf("failed to read ledger entry: %w", err)
	}
	return &entry, nil
}

// Complete marks requestID completed.
//
// The write always happens. When the id was never opened the returned
// error wraps ErrUnknownRequest; when it was already resolved it wraps
// ErrAlreadyResolved. In both cases the returned entry is non-nil and
// reflects what was written.
func (l *Ledger) Complete(ctx context.Context, requestID string) (*Entry, error) {
	return l.resolve(ctx, requestID, StatusCompleted, "")
}

// Fail marks requestID failed with reason. Its error contract matches Complete.
func (l *Ledger) Fail(ctx context.Context, requestID, reason string) (*Entry, error) {
	return l.resolve(ctx, requestID, StatusFailed, reason)
}

// Expire marks a pending entry expired. Entries that resolved in the
// meantime are left alone and ErrAlreadyResolved is returned.
//
// The entry is read again just before the write, so a result that lands
// while the sweep is deciding is not overwritten.
func (l *Ledger) Expire(ctx context.Context, requestID string) (*Entry, error) {
	if _, err := l.pending(ctx, requestID); err != nil {
		return nil, err
	}
	entry, err := l.pending(ctx, requestID)
	if err != nil {
		return nil, err
	}

	entry.Status = StatusExpired
	entry.Error = "no result received"
	entry.UpdatedAt = l.now().UTC()
	if err := l.store.Set(ctx, Namespace, requestID, entry); err != nil {
		return nil, fmt.Errorf("failed to expire ledger entry: %w", err)
	}

	l.notify(*entry)
	return entry, nil
}

// pending returns the entry for requestID if it is still pending.
func (l *Ledger) pending(ctx context.Context, requestID string) (*Entry, error) {
	entry, err := l.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if entry.Status.Resolved() {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadyResolved, requestID, entry.Status)
	}
	return entry, nil
}

func (l *Ledger) resolve(ctx context.Context, requestID string, status Status, reason string) (*Entry, error) {
	now := l.now().UTC()

	var notice error
	entry, err := l.Get(ctx, requestID)
	switch {
	case errors.Is(err, ErrUnknownRequest):
		notice = err
		entry = &Entry{RequestID: requestID, CreatedAt: now}
	case err != nil:
		return nil, err
	case entry.Status == StatusExpired:
		notice = fmt.Errorf("%w: %s expired at %s", ErrLateResult, requestID, entry.UpdatedAt.Format(time.RFC3339))
	case entry.Status.Resolved():
		notice = fmt.Errorf("%w: %s was %s", ErrAlreadyResolved, requestID, entry.Status)
	}

	entry.Status = status
	entry.Error = reason
	entry.UpdatedAt = now

	if err := l.store.Set(ctx, Namespace, requestID, entry); err != nil {
		return nil, fmt.Errorf("failed to resolve ledger entry: %w", err)
	}

	l.notify(*entry)
	return entry, notice
}

// Stale returns pending entries last updated more than maxAge ago, oldest first.
func (l *Ledger) Stale(ctx context.Context, maxAge time.Duration) ([]Entry, error) {
	all, err := l.store.List(ctx, Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	cutoff := l.now().UTC().Add(-maxAge)
	var stale []Entry
	for id, raw := range all {
		var entry Entry
		if err := store.Decode(Namespace, id, raw, &entry); err != nil {
			l.logger.Warn("skipping unreadable ledger entry", "request_id", id, "error", err)
			continue
		}
		if entry.Status == StatusPending && entry.UpdatedAt.Before(cutoff) {
			stale = append(stale, entry)
		}
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].CreatedAt.Before(stale[j].CreatedAt)
	})
	return stale, nil
}

func (l *Ledger) notify(entry Entry) {
	for _, o := range l.observers {
		o.EntryResolved(entry)
	}
}
