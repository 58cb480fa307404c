package mariadb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"gamestore/internal/config"
	"gamestore/internal/storage"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// State is the lifecycle position of the connection pool.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	StateDegraded
	StateReconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateDegraded:
		return "degraded"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

type Options struct {
	RetryInterval  time.Duration
	HealthInterval time.Duration
	PingTimeout    time.Duration
	// Migrate creates the schema on the first successful connection.
	Migrate bool
}

// Storage owns the database pool. Run supervises it; Do and Ping are safe
// for concurrent use by request handlers.
type Storage struct {
	DB *gorm.DB

	log      *slog.Logger
	opts     Options
	state    atomic.Int32
	wake     chan struct{}
	migrated bool
}

// New prepares a bounded pool without touching the network. The first
// connection is acquired by Run.
func New(cfg config.Database, log *slog.Logger) (*Storage, error) {
	const op = "storage.mariadb.New"

	if log == nil {
		log = slog.Default()
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.GetDSN(),
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return newStorage(db, log, Options{
		RetryInterval:  cfg.RetryInterval,
		HealthInterval: cfg.HealthInterval,
		PingTimeout:    cfg.DialTimeout,
		Migrate:        true,
	}), nil
}

// FromDB wraps an already established connection. The handle starts open
// and needs no supervisor.
func FromDB(db *gorm.DB, log *slog.Logger) *Storage {
	s := newStorage(db, log, Options{})
	s.setState(StateOpen)
	return s
}

func newStorage(db *gorm.DB, log *slog.Logger, opts Options) *Storage {
	if log == nil {
		log = slog.Default()
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 5 * time.Second
	}
	if opts.HealthInterval <= 0 {
		opts.HealthInterval = 15 * time.Second
	}
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 5 * time.Second
	}

	s := &Storage{
		DB:   db,
		log:  log,
		opts: opts,
		wake: make(chan struct{}, 1),
	}
	s.setState(StateConnecting)

	return s
}

func newGormLogger(log *slog.Logger) logger.Interface {
	return logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

func (s *Storage) State() State {
	return State(s.state.Load())
}

// setState returns the previous state.
func (s *Storage) setState(st State) State {
	return State(s.state.Swap(int32(st)))
}

// Do runs fn against the pool. It fails fast with storage.ErrUnavailable
// while the pool is not open, and degrades the pool when fn reports a lost
// connection.
func (s *Storage) Do(ctx context.Context, fn func(db *gorm.DB) error) error {
	if st := s.State(); st != StateOpen {
		return fmt.Errorf("%w: %s", storage.ErrUnavailable, st)
	}

	err := fn(s.DB.WithContext(ctx))
	if IsConnectionLost(err) {
		s.degrade(err)
	}

	return err
}

// Ping actively checks connectivity, for the liveness probe. A pool that is
// not open reports storage.ErrUnavailable without touching the server.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.mariadb.Ping"

	if st := s.State(); st != StateOpen {
		return fmt.Errorf("%s: %w: %s", op, storage.ErrUnavailable, st)
	}

	if err := s.ping(ctx); err != nil {
		if IsConnectionLost(err) {
			s.degrade(err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}

	pctx, cancel := context.WithTimeout(ctx, s.opts.PingTimeout)
	defer cancel()

	err = sqlDB.PingContext(pctx)
	if err != nil && ctx.Err() == nil && errors.Is(pctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", errPingTimeout, err)
	}

	return err
}

func (s *Storage) degrade(err error) {
	if !s.state.CompareAndSwap(int32(StateOpen), int32(StateDegraded)) {
		return
	}

	s.log.Warn("database connection degraded", slog.String("error", err.Error()))

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Storage) Close() error {
	s.setState(StateClosed)

	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
