package oracle

import (
	"context"
	"log/slog"
)

// LevelTrace is the level of per-command diagnostics.
const LevelTrace slog.Level = slog.LevelDebug - 4

// Trace logs a per-command diagnostic.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
