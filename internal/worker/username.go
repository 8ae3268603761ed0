package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/events"
	"github.com/phrazzld/courier/internal/generation"
)

// UsernameSubscriberName identifies the worker on domain.TopicUsernameRequested.
const UsernameSubscriberName = "generate-usernames-ai"

// UsernameWorker turns username tasks into results. Every task produces
// exactly one result on domain.TopicUsernameGenerated, successful or not.
type UsernameWorker struct {
	dispatcher events.Dispatcher
	generator  generation.Generator
	logger     *slog.Logger
}

// NewUsernameWorker creates a UsernameWorker.
func NewUsernameWorker(
	dispatcher events.Dispatcher,
	generator generation.Generator,
	logger *slog.Logger,
) (*UsernameWorker, error) {
	if dispatcher == nil {
		return nil, errors.New("dispatcher cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UsernameWorker{
		dispatcher: dispatcher,
		generator:  generator,
		logger:     logger.With("component", "username_worker"),
	}, nil
}

// Subscribe registers the worker with its dispatcher.
func (w *UsernameWorker) Subscribe() error {
	return events.Subscribe(w.dispatcher, domain.TopicUsernameRequested, UsernameSubscriberName, w.Handle)
}

// Handle generates usernames for task and emits the result.
func (w *UsernameWorker) Handle(ctx context.Context, task domain.UsernameTask) error {
	if task.RequestID == "" {
		return fmt.Errorf("%w: %w", events.ErrMalformedPayload, domain.ErrEmptyRequestID)
	}

	log := w.logger.With("request_id", task.RequestID)
	log.InfoContext(ctx, "Processing username generation request",
		"theme", task.Theme,
		"keywords", task.Keywords,
		"count", task.Count)

	result := w.generate(ctx, log, task)

	if _, err := events.Emit(ctx, w.dispatcher, domain.TopicUsernameGenerated, *result); err != nil {
		log.ErrorContext(ctx, "failed to emit username result", "error", err)
		return err
	}
	return nil
}

func (w *UsernameWorker) generate(ctx context.Context, log *slog.Logger, task domain.UsernameTask) *domain.UsernameResult {
	usernames, err := w.generator.GenerateUsernames(ctx, task.Theme, task.Keywords, task.Count)
	if err != nil {
		log.WarnContext(ctx, "username generation failed", "error", err)
		return domain.NewUsernameFailure(task.RequestID, err.Error())
	}

	log.InfoContext(ctx, "Generated usernames", "count", len(usernames))
	return &domain.UsernameResult{
		RequestID: task.RequestID,
		Success:   true,
		Theme:     task.Theme,
		Keywords:  task.Keywords,
		Usernames: usernames,
	}
}
