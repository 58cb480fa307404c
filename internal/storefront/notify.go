package storefront

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient message for the user, like a toast.
type Notification struct {
	ID      string
	Level   Level
	Message string
	At      time.Time
}

func newNotification(level Level, msg string) Notification {
	return Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: msg,
		At:      time.Now(),
	}
}

type Notifier interface {
	Notify(n Notification)
}

type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	Log *slog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	level := slog.LevelInfo
	if n.Level == LevelError {
		level = slog.LevelError
	}
	l.Log.Log(context.Background(), level, n.Message,
		slog.String("notification_id", n.ID),
		slog.String("level", string(n.Level)))
}
