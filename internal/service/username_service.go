package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/events"
)

// UsernameService accepts username generation requests.
type UsernameService interface {
	// RequestGeneration assigns a correlation ID to req, records it as
	// pending and dispatches the task. It returns the dispatched task; the
	// generated usernames arrive later on domain.TopicUsernameGenerated.
	RequestGeneration(ctx context.Context, req *domain.UsernameRequest) (*domain.UsernameTask, error)
}

type usernameServiceImpl struct {
	dispatcher events.Dispatcher
	ledger     RequestLedger
	logger     *slog.Logger
	opts       options
}

// NewUsernameService creates a new UsernameService.
// It returns an error if any of the required dependencies are nil.
func NewUsernameService(
	dispatcher events.Dispatcher,
	ledger RequestLedger,
	logger *slog.Logger,
	opts ...Option,
) (UsernameService, error) {
	if dispatcher == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "dispatcher cannot be nil"}
	}
	if ledger == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "ledger cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &usernameServiceImpl{
		dispatcher: dispatcher,
		ledger:     ledger,
		logger:     logger.With("component", "username_service"),
		opts:       applyOptions(opts),
	}, nil
}

func (s *usernameServiceImpl) RequestGeneration(
	ctx context.Context,
	req *domain.UsernameRequest,
) (*domain.UsernameTask, error) {
	if req == nil {
		return nil, domain.NewValidationError("", "request body is required", domain.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := s.opts.ids.NewID()
	task, err := domain.NewUsernameTask(req, requestID)
	if err != nil {
		return nil, NewServiceError("request_generation", "failed to build task", err)
	}

	if err := dispatch(ctx, s.dispatcher, s.ledger, domain.TopicUsernameRequested, *task, requestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to dispatch username request",
			"request_id", requestID,
			"error", err)
		return nil, NewServiceError("request_generation", "failed to dispatch task", err)
	}

	s.logger.InfoContext(ctx, "Username generation requested",
		"request_id", requestID,
		"theme", task.Theme,
		"keywords", task.Keywords,
		"count", task.Count)

	return task, nil
}

// dispatch opens the ledger entry for requestID, keeping payload as its
// metadata, and emits payload. When the emit is refused the entry is marked
// failed so pollers do not wait on it.
func dispatch[T any](
	ctx context.Context,
	d events.Dispatcher,
	l RequestLedger,
	topic events.Topic[T],
	payload T,
	requestID string,
) error {
	if _, err := l.OpenWithMetadata(ctx, requestID, topic.Name(), payload); err != nil {
		return err
	}

	if _, err := events.Emit(ctx, d, topic, payload); err != nil {
		// The entry is known to be pending, so Fail reports no notice.
		_, _ = l.Fail(context.WithoutCancel(ctx), requestID, "dispatch failed")
		return errors.Join(ErrDispatchFailed, err)
	}
	return nil
}
