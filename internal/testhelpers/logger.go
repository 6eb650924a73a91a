package testhelpers

import (
	"io"
	"log/slog"

	"github.com/lnikula/lifttrack/internal/logging"
)

// NewLogger returns a logger suitable for tests. It writes to w without
// timestamps so that assertions on the output stay stable, and it picks up
// attrs stored in the context like the production logger does.
func NewLogger(w io.Writer) *slog.Logger {
	return slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})))
}
