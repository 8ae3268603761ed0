package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/courier/internal/correlation"
	"github.com/phrazzld/courier/internal/domain"
	"github.com/phrazzld/courier/internal/ledger"
	"github.com/phrazzld/courier/internal/store"
)

// StatusService answers questions about accepted requests.
type StatusService interface {
	// Get returns the ledger entry for id.
	Get(ctx context.Context, id string) (*ledger.Entry, error)

	// Usernames returns the stored usernames for id.
	Usernames(ctx context.Context, id string) (*domain.UsernameRecord, error)

	// Greeting returns the stored greeting for id.
	Greeting(ctx context.Context, id string) (*domain.GreetingRecord, error)
}

type statusServiceImpl struct {
	store  store.StateStore
	ledger RequestLedger
	logger *slog.Logger
}

// NewStatusService creates a new StatusService.
func NewStatusService(st store.StateStore, ledger RequestLedger, logger *slog.Logger) (StatusService, error) {
	if st == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "state store cannot be nil"}
	}
	if ledger == nil {
		return nil, &ServiceError{Operation: "create_service", Message: "ledger cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &statusServiceImpl{
		store:  st,
		ledger: ledger,
		logger: logger.With("component", "status_service"),
	}, nil
}

func (s *statusServiceImpl) Get(ctx context.Context, id string) (*ledger.Entry, error) {
	requestID, err := correlation.Parse(id)
	if err != nil {
		return nil, err
	}

	entry, err := s.ledger.Get(ctx, requestID)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownRequest) {
			return nil, ErrRequestNotFound
		}
		s.logger.ErrorContext(ctx, "failed to read request status",
			"request_id", requestID,
			"error", err)
		return nil, NewServiceError("get_status", "failed to read ledger", err)
	}
	return entry, nil
}

func (s *statusServiceImpl) Usernames(ctx context.Context, id string) (*domain.UsernameRecord, error) {
	var record domain.UsernameRecord
	if err := s.record(ctx, "get_usernames", domain.NamespaceUsernames, id, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *statusServiceImpl) Greeting(ctx context.Context, id string) (*domain.GreetingRecord, error) {
	var record domain.GreetingRecord
	if err := s.record(ctx, "get_greeting", domain.NamespaceGreetings, id, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *statusServiceImpl) record(ctx context.Context, op, namespace, id string, dest any) error {
	requestID, err := correlation.Parse(id)
	if err != nil {
		return err
	}

	if err := s.store.Get(ctx, namespace, requestID, dest); err != nil {
		if store.IsNotFoundError(err) {
			return ErrResultNotFound
		}
		s.logger.ErrorContext(ctx, "failed to read stored result",
			"namespace", namespace,
			"request_id", requestID,
			"error", err)
		return NewServiceError(op, "failed to read stored result", err)
	}
	return nil
}
