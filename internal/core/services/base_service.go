package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_ledger/internal/apperrors"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/SscSPs/mma_ledger/internal/middleware"
	"github.com/google/uuid"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Notifier portssvc.ChangeNotifier
	Now      func() time.Time
	NewID    func() string
}

func newBaseService() BaseService {
	return BaseService{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a rejected operation with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// LogFailure logs err at a level that matches its kind: expected rejections
// are warnings, everything else is an error.
func (s *BaseService) LogFailure(ctx context.Context, err error, msg string, keyvals ...any) {
	if apperrors.IsClientError(err) {
		s.LogWarn(ctx, err, msg, keyvals...)
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// AuthorizeOwner checks that userID owns the resource. A resource owned by
// someone else is reported as not found.
func (s *BaseService) AuthorizeOwner(ctx context.Context, ownerID, userID, kind, id string) error {
	if ownerID == userID {
		return nil
	}
	s.LogDebug(ctx, "Access to resource of another user denied",
		slog.String("kind", kind),
		slog.String("resource_id", id),
		slog.String("user_id", userID))
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}

// Notify hands notice to the notifier. Failures are logged and never
// returned: the change it describes is already committed.
func (s *BaseService) Notify(ctx context.Context, notice domain.Notice) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(ctx, notice); err != nil {
		s.LogError(ctx, err, "Failed to deliver notice",
			slog.String("subject", notice.Subject),
			slog.String("severity", string(notice.Severity)))
	}
}

// notifyIfBelowThreshold emits a warning when asset is negative or under its
// alert threshold.
func (s *BaseService) notifyIfBelowThreshold(ctx context.Context, asset domain.Asset) {
	if !asset.BelowThreshold() {
		return
	}
	msg := fmt.Sprintf("Balance of %s is %s", asset.Name, asset.Balance.StringFixed(2))
	if asset.AlertThreshold != nil && !asset.Balance.IsNegative() {
		msg += fmt.Sprintf(", below the alert threshold of %s", asset.AlertThreshold.StringFixed(2))
	}
	s.Notify(ctx, domain.Notice{
		Message:  msg,
		Severity: domain.SeverityWarning,
		UserID:   asset.UserID,
		Subject:  asset.AssetID,
	})
}
