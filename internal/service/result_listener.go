package service

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

// ResultSubscriberName identifies the listener on domain.TopicUsernameGenerated.
const ResultSubscriberName = "log-generated-usernames"

// ResultListener consumes username results, logs them and stores successful
// ones under their correlation ID.
//
// Redelivered results overwrite the stored record and repeat the log lines.
type ResultListener struct {
	store  store.StateStore
	ledger RequestLedger
	logger *slog.Logger
	now    func() time.Time
}

// NewResultListener creates a ResultListener.
func NewResultListener(
	st store.StateStore,
	ledger RequestLedger,
	logger *slog.Logger,
	opts ...Option,
) (*ResultListener, error) {
	if st == nil {
		return nil, &ServiceError{Operation: "create_listener", Message: "state store cannot be nil"}
	}
	if ledger == nil {
		return nil, &ServiceError{Operation: "create_listener", Message: "ledger cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := applyOptions(opts)
	return &ResultListener{
		store:  st,
		ledger: ledger,
		logger: logger.With("component", "result_listener"),
		now:    o.now,
	}, nil
}

// Subscribe registers the listener with d.
func (l *ResultListener) Subscribe(d events.Dispatcher) error {
	return events.Subscribe(d, domain.TopicUsernameGenerated, ResultSubscriberName, l.HandleResult)
}

// HandleResult processes one result payload.
func (l *ResultListener) HandleResult(ctx context.Context, result domain.UsernameResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: rejecting username result: %w", events.ErrMalformedPayload, err)
	}

	if !result.Success {
		l.logger.ErrorContext(ctx, "Username generation failed",
			"request_id", result.RequestID,
			"error", result.Error)

		entry, err := l.ledger.Fail(ctx, result.RequestID, result.Error)
		l.reportResolution(ctx, entry, err)
		return nil
	}

	usernames := make([]string, len(result.Usernames))
	copy(usernames, result.Usernames)

	theme := result.Theme
	if theme == "" {
		theme = l.requestedTheme(ctx, result.RequestID)
	}

	l.logger.InfoContext(ctx, "Usernames generated successfully",
		"request_id", result.RequestID,
		"theme", theme,
		"count", len(usernames))

	for i, name := range usernames {
		l.logger.InfoContext(ctx, fmt.Sprintf("  %d. @%s", i+1, name),
			"request_id", result.RequestID)
	}

	record := domain.UsernameRecord{
		Theme:       theme,
		Usernames:   usernames,
		GeneratedAt: l.now().UTC(),
	}
	if err := l.store.Set(ctx, domain.NamespaceUsernames, result.RequestID, record); err != nil {
		return NewServiceError("handle_result", "failed to store usernames", err)
	}

	entry, err := l.ledger.Complete(ctx, result.RequestID)
	l.reportResolution(ctx, entry, err)
	return nil
}

// requestedTheme recovers the theme from the task recorded when the request
// was accepted. It returns "" when the ledger has none.
func (l *ResultListener) requestedTheme(ctx context.Context, requestID string) string {
	entry, err := l.ledger.Get(ctx, requestID)
	if err != nil {
		if !errors.Is(err, ledger.ErrUnknownRequest) {
			l.logger.WarnContext(ctx, "failed to read request ledger",
				"request_id", requestID,
				"error", err)
		}
		return ""
	}

	var task domain.UsernameTask
	if err := entry.DecodeMetadata(&task); err != nil {
		if !errors.Is(err, ledger.ErrNoMetadata) {
			l.logger.WarnContext(ctx, "unreadable request metadata",
				"request_id", requestID,
				"error", err)
		}
		return ""
	}
	return task.Theme
}

// reportResolution logs orphaned and duplicate results. Ledger write
// failures are logged and otherwise ignored.
func (l *ResultListener) reportResolution(ctx context.Context, entry *ledger.Entry, err error) {
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrLateResult):
		l.logger.WarnContext(ctx, "late result for expired request",
			"request_id", entry.RequestID,
			"status", entry.Status)
	case errors.Is(err, ledger.ErrUnknownRequest):
		l.logger.WarnContext(ctx, "orphaned result for unknown request",
			"request_id", entry.RequestID,
			"status", entry.Status)
	case errors.Is(err, ledger.ErrAlreadyResolved):
		l.logger.WarnContext(ctx, "duplicate result for resolved request",
			"request_id", entry.RequestID,
			"status", entry.Status)
	default:
		l.logger.WarnContext(ctx, "failed to update request ledger",
			"error", err)
	}
}
