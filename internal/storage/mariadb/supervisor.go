package mariadb

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Run acquires the first connection and keeps the pool healthy until ctx is
// done. Lost connections are re-acquired every RetryInterval, forever. Any
// other error is fatal and returned to the caller.
func (s *Storage) Run(ctx context.Context) error {
	const op = "storage.mariadb.Run"

	if err := s.acquire(ctx, StateConnecting); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	ticker := time.NewTicker(s.opts.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-s.wake:
		}

		err := s.ping(ctx)
		if ctx.Err() != nil {
			return nil
		}

		if err == nil {
			if prev := s.setState(StateOpen); prev != StateOpen {
				s.log.Info("database connection restored", slog.String("from", prev.String()))
			}
			continue
		}

		if !IsConnectionLost(err) {
			s.log.Error("database error", slog.String("operation", op), slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, err)
		}

		s.log.Error("database connection lost", slog.String("error", err.Error()))

		if err := s.acquire(ctx, StateReconnecting); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
}

func (s *Storage) acquire(ctx context.Context, st State) error {
	s.setState(st)

	for {
		err := s.ping(ctx)
		if err == nil && s.opts.Migrate && !s.migrated {
			if err = s.Migrate(ctx); err == nil {
				s.migrated = true
			} else if !IsConnectionLost(err) && ctx.Err() == nil {
				return err
			}
		}

		if ctx.Err() != nil {
			return nil
		}

		if err == nil {
			s.setState(StateOpen)
			s.log.Info("connected to database", slog.String("after", st.String()))
			return nil
		}

		s.log.Error(
			"database connection failed, retrying",
			slog.String("state", st.String()),
			slog.String("error", err.Error()),
			slog.Duration("retry_in", s.opts.RetryInterval))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.opts.RetryInterval):
		}
	}
}
