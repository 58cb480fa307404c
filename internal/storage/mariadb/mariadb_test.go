package mariadb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"regexp"
	"syscall"
	"testing"
	"time"

	"gamestore/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupMockStorage(t *testing.T, opts Options) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	return newStorage(gormDB, discardLogger(), opts), mock
}

func fastOptions() Options {
	return Options{
		RetryInterval:  5 * time.Millisecond,
		HealthInterval: time.Hour,
		PingTimeout:    time.Second,
	}
}

func runStorage(t *testing.T, s *Storage) (context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	t.Cleanup(cancel)

	return cancel, done
}

func TestStorage_Run_RetriesUntilConnected(t *testing.T) {
	s, mock := setupMockStorage(t, fastOptions())

	mock.ExpectPing().WillReturnError(gomysql.ErrInvalidConn)
	mock.ExpectPing().WillReturnError(syscall.ECONNREFUSED)
	mock.ExpectPing()

	assert.Equal(t, StateConnecting, s.State())

	cancel, done := runStorage(t, s)

	assert.Eventually(t, func() bool { return s.State() == StateOpen }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Run_MigratesOnFirstConnection(t *testing.T) {
	opts := fastOptions()
	opts.Migrate = true
	s, mock := setupMockStorage(t, opts)

	mock.ExpectPing()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS categories")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS games")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	cancel, done := runStorage(t, s)

	assert.Eventually(t, func() bool { return s.State() == StateOpen }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStorage_Run_FatalMigrationError(t *testing.T) {
	opts := fastOptions()
	opts.Migrate = true
	s, mock := setupMockStorage(t, opts)

	mock.ExpectPing()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS categories")).
		WillReturnError(&gomysql.MySQLError{Number: 1142, Message: "CREATE command denied"})

	_, done := runStorage(t, s)

	select {
	case err := <-done:
		var myErr *gomysql.MySQLError
		assert.ErrorAs(t, err, &myErr)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on fatal error")
	}
}

func TestStorage_Run_ReconnectsAfterConnectionLoss(t *testing.T) {
	s, mock := setupMockStorage(t, fastOptions())

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(gomysql.ErrInvalidConn)
	mock.ExpectPing().WillReturnError(syscall.ECONNREFUSED)
	mock.ExpectPing()

	cancel, done := runStorage(t, s)

	require.Eventually(t, func() bool { return s.State() == StateOpen }, time.Second, time.Millisecond)

	err := s.Do(context.Background(), func(db *gorm.DB) error {
		return gomysql.ErrInvalidConn
	})
	assert.ErrorIs(t, err, gomysql.ErrInvalidConn)

	assert.Eventually(t, func() bool {
		return mock.ExpectationsWereMet() == nil && s.State() == StateOpen
	}, time.Second, time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestStorage_Run_FatalErrorPropagates(t *testing.T) {
	s, mock := setupMockStorage(t, fastOptions())

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(&gomysql.MySQLError{Number: 1045, Message: "Access denied"})

	_, done := runStorage(t, s)

	require.Eventually(t, func() bool { return s.State() == StateOpen }, time.Second, time.Millisecond)

	_ = s.Do(context.Background(), func(db *gorm.DB) error {
		return io.ErrUnexpectedEOF
	})

	select {
	case err := <-done:
		var myErr *gomysql.MySQLError
		require.ErrorAs(t, err, &myErr)
		assert.Equal(t, uint16(1045), myErr.Number)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on fatal error")
	}
}

func TestStorage_Do_FailsFastWhenNotOpen(t *testing.T) {
	s, _ := setupMockStorage(t, fastOptions())

	called := false
	err := s.Do(context.Background(), func(db *gorm.DB) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, storage.ErrUnavailable)
	assert.False(t, called)
}

func TestStorage_Do_KeepsOpenOnStatementError(t *testing.T) {
	s, _ := setupMockStorage(t, fastOptions())
	s.setState(StateOpen)

	err := s.Do(context.Background(), func(db *gorm.DB) error {
		return &gomysql.MySQLError{Number: 1064, Message: "syntax error"}
	})

	assert.Error(t, err)
	assert.Equal(t, StateOpen, s.State())
}

func TestStorage_Ping(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		s, mock := setupMockStorage(t, fastOptions())
		s.setState(StateOpen)
		mock.ExpectPing()

		assert.NoError(t, s.Ping(context.Background()))
		assert.Equal(t, StateOpen, s.State())
	})

	t.Run("connection lost", func(t *testing.T) {
		s, mock := setupMockStorage(t, fastOptions())
		s.setState(StateOpen)
		mock.ExpectPing().WillReturnError(gomysql.ErrInvalidConn)

		assert.Error(t, s.Ping(context.Background()))
		assert.Equal(t, StateDegraded, s.State())
	})

	t.Run("unavailable while reconnecting", func(t *testing.T) {
		s, mock := setupMockStorage(t, fastOptions())
		s.setState(StateReconnecting)

		err := s.Ping(context.Background())

		assert.ErrorIs(t, err, storage.ErrUnavailable)
		assert.Equal(t, StateReconnecting, s.State())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unavailable before first connection", func(t *testing.T) {
		s, mock := setupMockStorage(t, fastOptions())

		assert.ErrorIs(t, s.Ping(context.Background()), storage.ErrUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unavailable while degraded", func(t *testing.T) {
		s, _ := setupMockStorage(t, fastOptions())
		s.setState(StateDegraded)

		assert.ErrorIs(t, s.Ping(context.Background()), storage.ErrUnavailable)
	})

	t.Run("ping timeout degrades", func(t *testing.T) {
		opts := fastOptions()
		opts.PingTimeout = 10 * time.Millisecond
		s, mock := setupMockStorage(t, opts)
		s.setState(StateOpen)
		mock.ExpectPing().WillDelayFor(200 * time.Millisecond)

		err := s.Ping(context.Background())

		assert.ErrorIs(t, err, errPingTimeout)
		assert.Equal(t, StateDegraded, s.State())
	})

	t.Run("caller deadline keeps open", func(t *testing.T) {
		s, mock := setupMockStorage(t, fastOptions())
		s.setState(StateOpen)
		mock.ExpectPing().WillDelayFor(200 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		assert.Error(t, s.Ping(ctx))
		assert.Equal(t, StateOpen, s.State())
	})
}

func TestStorage_Do_KeepsOpenOnCallerDeadline(t *testing.T) {
	s, _ := setupMockStorage(t, fastOptions())
	s.setState(StateOpen)

	err := s.Do(context.Background(), func(db *gorm.DB) error {
		return fmt.Errorf("query: %w", context.DeadlineExceeded)
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateOpen, s.State())
}

func TestIsConnectionLost(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"invalid conn", gomysql.ErrInvalidConn, true},
		{"wrapped eof", fmt.Errorf("query: %w", io.EOF), true},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"server shutdown", &gomysql.MySQLError{Number: 1053}, true},
		{"access denied", &gomysql.MySQLError{Number: 1045}, false},
		{"duplicate key", &gomysql.MySQLError{Number: 1062}, false},
		{"plain", errors.New("boom"), false},
		{"caller deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), false},
		{"ping timeout", fmt.Errorf("%w: %w", errPingTimeout, context.DeadlineExceeded), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConnectionLost(tt.err))
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "reconnecting", StateReconnecting.String())
	assert.Equal(t, "state(42)", State(42).String())
}
