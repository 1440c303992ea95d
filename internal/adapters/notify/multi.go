package notify

import (
	"context"
	"errors"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
)

// Multi fans a notice out to every notifier. A failing notifier does not stop
// the others; all failures are joined.
type Multi []portssvc.ChangeNotifier

var _ portssvc.ChangeNotifier = Multi(nil)

func (m Multi) Notify(ctx context.Context, notice domain.Notice) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
