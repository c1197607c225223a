// Package observability holds the logging, tracing and metrics plumbing
// shared by the api server and the seed tool.
package observability

import (
	"io"
	"log/slog"

	"github.com/adpulse/adpulse/internal/config"
)

// NewLogger builds the process-wide logger. Dev profiles default to the
// text handler; prod emits JSON for log shippers.
func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	opts := &slog.HandlerOptions{Level: cfg.Observability.LogLevel}

	var handler slog.Handler = slog.NewTextHandler(writer, opts)
	if cfg.Observability.LogJSON {
		handler = slog.NewJSONHandler(writer, opts)
	}
	return slog.New(handler).With(
		slog.String("service", cfg.Service.Name),
		slog.String("profile", string(cfg.Profile)),
	)
}
