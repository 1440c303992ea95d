// Package notify delivers change notices produced by the services.
package notify

import (
	"context"
	"log/slog"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
)

// LogNotifier writes each notice to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier logging through logger, or slog.Default() when nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

var _ portssvc.ChangeNotifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(ctx context.Context, notice domain.Notice) error {
	n.logger.Log(ctx, levelFor(notice.Severity), notice.Message,
		slog.String("component", "notifier"),
		slog.String("severity", string(notice.Severity)),
		slog.String("user_id", notice.UserID),
		slog.String("subject", notice.Subject))
	return nil
}

func levelFor(s domain.Severity) slog.Level {
	switch s {
	case domain.SeverityCritical:
		return slog.LevelError
	case domain.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
