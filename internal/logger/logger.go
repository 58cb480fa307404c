package logger

import (
	"io"
	"log/slog"
	"os"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Setup returns a text logger for local runs and a JSON logger for prod.
// Unknown environments get the local logger.
func Setup(env string) *slog.Logger {
	return New(os.Stdout, env)
}

func New(w io.Writer, env string) *slog.Logger {
	switch env {
	case EnvProd:
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
}
