package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/events"
	"github.com/phrazzld/courier/internal/ledger"
	"github.com/phrazzld/courier/internal/store"
)

// GreetingSubscriberName identifies the worker on domain.TopicProcessGreeting.
const GreetingSubscriberName = "process-greeting"

// Resolver is the part of ledger.Ledger the greeting worker uses.
type Resolver interface {
	Complete(ctx context.Context, requestID string) (*ledger.Entry, error)
	Fail(ctx context.Context, requestID, reason string) (*ledger.Entry, error)
}

// GreetingWorker renders greetings and stores them under their request ID.
type GreetingWorker struct {
	store  store.StateStore
	ledger Resolver
	logger *slog.Logger
	now    func() time.Time
}

// NewGreetingWorker creates a GreetingWorker. A nil now uses time.Now.
func NewGreetingWorker(st store.StateStore, ledger Resolver, logger *slog.Logger, now func() time.Time) (*GreetingWorker, error) {
	if st == nil {
		return nil, errors.New("state store cannot be nil")
	}
	if ledger == nil {
		return nil, errors.New("ledger cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}

	return &GreetingWorker{
		store:  st,
		ledger: ledger,
		logger: logger.With("component", "greeting_worker"),
		now:    now,
	}, nil
}

// Subscribe registers the worker with d.
func (w *GreetingWorker) Subscribe(d events.Dispatcher) error {
	return events.Subscribe(d, domain.TopicProcessGreeting, GreetingSubscriberName, w.Handle)
}

// Handle processes one greeting task.
func (w *GreetingWorker) Handle(ctx context.Context, task domain.GreetingTask) error {
	if task.RequestID == "" {
		return fmt.Errorf("%w: %w", events.ErrMalformedPayload, domain.ErrEmptyRequestID)
	}

	greeting := task.Greeting()
	w.logger.InfoContext(ctx, "Processing greeting",
		"request_id", task.RequestID,
		"greeting", greeting,
		"app_name", task.AppName)

	record := domain.GreetingRecord{
		Greeting:    greeting,
		AppName:     task.AppName,
		RequestedAt: task.Timestamp,
		ProcessedAt: w.now().UTC(),
	}
	if err := w.store.Set(ctx, domain.NamespaceGreetings, task.RequestID, record); err != nil {
		if _, failErr := w.ledger.Fail(ctx, task.RequestID, "failed to store greeting"); failErr != nil {
			w.logger.WarnContext(ctx, "failed to update request ledger",
				"request_id", task.RequestID,
				"error", failErr)
		}
		return fmt.Errorf("failed to store greeting: %w", err)
	}

	switch _, err := w.ledger.Complete(ctx, task.RequestID); {
	case err == nil:
	case errors.Is(err, ledger.ErrAlreadyResolved), errors.Is(err, ledger.ErrUnknownRequest), errors.Is(err, ledger.ErrLateResult):
		w.logger.WarnContext(ctx, "greeting task was not pending",
			"request_id", task.RequestID,
			"error", err)
	default:
		w.logger.WarnContext(ctx, "failed to update request ledger",
			"request_id", task.RequestID,
			"error", err)
	}
	return nil
}
