package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper periodically expires entries that never received a result.
type Sweeper struct {
	ledger *Ledger
	maxAge time.Duration
	cron   *cron.Cron
	logger *slog.Logger
}

// NewSweeper schedules a sweep on the cron spec, e.g. "@every 1m" or
// "*/5 * * * *".
func NewSweeper(l *Ledger, spec string, maxAge time.Duration, logger *slog.Logger) (*Sweeper, error) {
	if maxAge <= 0 {
		return nil, fmt.Errorf("max age must be positive, got %s", maxAge)
	}

	s := &Sweeper{
		ledger: l,
		maxAge: maxAge,
		cron:   cron.New(),
		logger: logger.With("component", "ledger_sweeper"),
	}

	if _, err := s.cron.AddFunc(spec, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.logger.Error("ledger sweep failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start begins running the schedule in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info("ledger sweeper started", "max_age", s.maxAge.String())
}

// Stop halts the schedule and waits for a running sweep, or for ctx.
func (s *Sweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep expires every stale pending entry and returns how many it expired.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	stale, err := s.ledger.Stale(ctx, s.maxAge)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, entry := range stale {
		if _, err := s.ledger.Expire(ctx, entry.RequestID); err != nil {
			if errors.Is(err, ErrAlreadyResolved) {
				continue
			}
			s.logger.Error("failed to expire request",
				"request_id", entry.RequestID,
				"error", err)
			continue
		}
		expired++
		s.logger.Warn("request expired without result",
			"request_id", entry.RequestID,
			"topic", entry.Topic,
			"age", s.ledger.now().Sub(entry.CreatedAt).Round(time.Second).String())
	}

	if expired > 0 {
		s.logger.Info("ledger sweep completed", "expired", expired)
	}
	return expired, nil
}
