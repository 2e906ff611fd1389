package logger

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Options configures the handler returned by NewHandler.
type Options struct {
	Level  slog.Leveler
	Format string // "json" or "text"
	Output io.Writer
}

// NewHandler builds the process-wide slog handler. A nil opts yields JSON at info level on stdout.
func NewHandler(opts *Options) slog.Handler {
	if opts == nil {
		opts = &Options{}
	}

	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(opts.Format, "text") {
		return slog.NewTextHandler(out, handlerOpts)
	}

	return slog.NewJSONHandler(out, handlerOpts)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLoggerMiddleware logs one line per request once the handler returns.
func NewLoggerMiddleware(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				attrs := []any{
					"request_id", middleware.GetReqID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
				}

				switch {
				case status >= http.StatusInternalServerError:
					log.Error("HTTP request completed", attrs...)
				case status >= http.StatusBadRequest:
					log.Warn("HTTP request completed", attrs...)
				default:
					log.Info("HTTP request completed", attrs...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
