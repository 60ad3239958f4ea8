// Package logger builds component-scoped zerolog loggers.
package logger

import (
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	out io.Writer = os.Stdout
)

// Setup applies level and format ("json" or "console") process-wide.
// Unknown levels fall back to info; config.LoggingConfig validates earlier.
func Setup(level, format string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var w io.Writer = os.Stdout
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	SetOutput(w)
}

// SetOutput redirects loggers created afterwards. Tests use it to capture output.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// New returns a logger for the given component. All entries carry the
// component field.
func New(component string) zerolog.Logger {
	mu.RLock()
	w := out
	mu.RUnlock()
	return zerolog.New(w).With().Timestamp().Str("component", component).Logger()
}

// Nop discards everything.
func Nop() zerolog.Logger { return zerolog.Nop() }

// RequestLogger logs one line per HTTP request with status, size and latency.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				ev := log.Info()
				if ww.Status() >= http.StatusInternalServerError {
					ev = log.Error()
				} else if ww.Status() >= http.StatusBadRequest {
					ev = log.Warn()
				}
				ev.Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
