package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Errors go to Sentry as well when a DSN is configured
func Init(isDev bool, sentryDSN, env string) {
	Log = New(os.Stdout, isDev, sentryHandler(sentryDSN, env))
	slog.SetDefault(Log)
}

// New builds a logger writing to w, fanning out to any extra handlers.
func New(w io.Writer, isDev bool, extra ...slog.Handler) *slog.Logger {
	var handlers []slog.Handler

	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	for _, h := range extra {
		if h != nil {
			handlers = append(handlers, h)
		}
	}

	// Use multi-handler if we have multiple, otherwise use single
	if len(handlers) > 1 {
		return slog.New(slogmulti.Fanout(handlers...))
	}
	return slog.New(handlers[0])
}

// sentryHandler returns nil when Sentry is not configured or fails to start.
func sentryHandler(dsn, env string) slog.Handler {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		slog.Warn("sentry init failed, continuing without it", "error", err)
		return nil
	}

	return slogsentry.Option{
		Level: slog.LevelError,
	}.NewSentryHandler()
}

// Flush waits for buffered Sentry events before shutdown.
func Flush() {
	sentry.Flush(2 * time.Second)
}
