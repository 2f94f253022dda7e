package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/golf-league-service/internal/logging"
)

// logWithCollaborator emits a log entry if a logger is available and always includes the collaborator name.
func logWithCollaborator(ctx context.Context, fallback *slog.Logger, level slog.Level, collaborator string, msg string, args ...any) {
	logger := logging.FromContext(ctx, fallback)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldCollaborator, collaborator))
	logger.Log(ctx, level, msg, args...)
}
