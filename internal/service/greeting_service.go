package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/courier/internal/config"
	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/events"
)

// GreetingService accepts hello requests.
type GreetingService interface {
	// RequestGreeting dispatches a greeting task stamped with the configured
	// app name and prefix.
	RequestGreeting(ctx context.Context) (*domain.GreetingTask, error)
}

type greetingServiceImpl struct {
	dispatcher events.Dispatcher
	ledger     RequestLedger
	app        config.AppConfig
	logger     *slog.Logger
	opts       options
}

// NewGreetingService creates a new GreetingService.
func NewGreetingService(
	dispatcher events.Dispatcher,
	ledger RequestLedger,
	app config.AppConfig,
	logger *slog.Logger,
	opts ...Option,
) (GreetingService, error) {
	if dispatcher == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "dispatcher cannot be nil"}
	}
	if ledger == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "ledger cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &greetingServiceImpl{
		dispatcher: dispatcher,
		ledger:     ledger,
		app:        app,
		logger:     logger.With("component", "greeting_service"),
		opts:       applyOptions(opts),
	}, nil
}

func (s *greetingServiceImpl) RequestGreeting(ctx context.Context) (*domain.GreetingTask, error) {
	task := &domain.GreetingTask{
		Timestamp:      s.opts.now().UTC(),
		AppName:        s.app.Name,
		GreetingPrefix: s.app.GreetingPrefix,
		RequestID:      s.opts.ids.NewID(),
	}

	if err := dispatch(ctx, s.dispatcher, s.ledger, domain.TopicProcessGreeting, *task, task.RequestID); err != nil {
		s.logger.ErrorContext(ctx, "failed to dispatch greeting request",
			"request_id", task.RequestID,
			"error", err)
		return nil, NewServiceError("request_greeting", "failed to dispatch task", err)
	}

	s.logger.InfoContext(ctx, "Hello API endpoint called",
		"request_id", task.RequestID,
		"app_name", task.AppName,
		"timestamp", task.Timestamp)

	return task, nil
}
