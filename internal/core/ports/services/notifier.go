package services

import (
	"context"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
)

// ChangeNotifier receives notices about state changes, e.g. an asset falling
// under its alert threshold. Delivery is best effort.
type ChangeNotifier interface {
	Notify(ctx context.Context, notice domain.Notice) error
}
