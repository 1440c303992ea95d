package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/mma_ledger/internal/adapters/memory"
	"github.com/SscSPs/mma_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, notice domain.Notice) error {
	return m.Called(ctx, notice).Error(0)
}

type failingDebts struct{}

func (failingDebts) FindDebtByID(context.Context, string) (*domain.Debt, error) {
	return nil, errors.New("db down")
}

func (failingDebts) ListDebtsByUser(context.Context, string, bool) ([]domain.Debt, error) {
	return nil, errors.New("db down")
}

func (failingDebts) ListDebtsDueBefore(context.Context, time.Time) ([]domain.Debt, error) {
	return nil, errors.New("db down")
}

var now = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func seedDebt(t *testing.T, store *memory.Store, id, balance string, due time.Time, archived bool) {
	t.Helper()
	d := domain.Debt{
		DebtID:     id,
		UserID:     "user-1",
		Name:       "Debt " + id,
		Type:       domain.DebtCreditCard,
		Balance:    decimal.RequireFromString(balance),
		DueDate:    &due,
		IsArchived: archived,
	}
	d.Version = 1
	require.NoError(t, store.SaveDebt(context.Background(), d))
}

func newTestReminder(store *memory.Store, n *mockNotifier) *DueReminder {
	r := NewDueReminder(store, n, 72*time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.now = func() time.Time { return now }
	return r
}

func TestDueReminder_RunOnce(t *testing.T) {
	store := memory.NewStore()
	seedDebt(t, store, "overdue", "100", now.Add(-24*time.Hour), false)
	seedDebt(t, store, "soon", "50", now.Add(48*time.Hour), false)
	seedDebt(t, store, "later", "50", now.Add(30*24*time.Hour), false)
	seedDebt(t, store, "archived", "0", now.Add(time.Hour), true)

	n := new(mockNotifier)
	n.On("Notify", mock.Anything, mock.MatchedBy(func(notice domain.Notice) bool {
		return notice.Subject == "overdue" && notice.Severity == domain.SeverityWarning &&
			notice.Message == "Debt overdue is overdue since 2024-04-30, balance 100.00"
	})).Return(nil).Once()
	n.On("Notify", mock.Anything, mock.MatchedBy(func(notice domain.Notice) bool {
		return notice.Subject == "soon" && notice.UserID == "user-1" &&
			notice.Message == "Debt soon is due on 2024-05-03, balance 50.00"
	})).Return(nil).Once()

	sent, err := newTestReminder(store, n).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	n.AssertExpectations(t)
}

func TestDueReminder_NotifierFailureContinues(t *testing.T) {
	store := memory.NewStore()
	seedDebt(t, store, "a", "10", now.Add(time.Hour), false)
	seedDebt(t, store, "b", "10", now.Add(2*time.Hour), false)

	n := new(mockNotifier)
	n.On("Notify", mock.Anything, mock.MatchedBy(func(notice domain.Notice) bool { return notice.Subject == "a" })).
		Return(errors.New("broker unavailable")).Once()
	n.On("Notify", mock.Anything, mock.MatchedBy(func(notice domain.Notice) bool { return notice.Subject == "b" })).
		Return(nil).Once()

	sent, err := newTestReminder(store, n).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	n.AssertExpectations(t)
}

func TestDueReminder_ListFailure(t *testing.T) {
	r := NewDueReminder(failingDebts{}, new(mockNotifier), time.Hour, nil)
	_, err := r.RunOnce(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestDueReminder_StartRejectsBadSchedule(t *testing.T) {
	r := NewDueReminder(memory.NewStore(), nil, time.Hour, nil)
	assert.Error(t, r.Start("every day"))

	require.NoError(t, r.Start("0 8 * * *"))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.Stop(ctx)
}
