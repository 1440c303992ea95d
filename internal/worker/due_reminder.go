// Package worker runs scheduled background jobs.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/mma_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mma_ledger/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// runTimeout bounds a single scheduled run.
const runTimeout = time.Minute

// DueReminder warns about active debts whose due date falls within Window.
type DueReminder struct {
	debts    portsrepo.DebtReader
	notifier portssvc.ChangeNotifier
	window   time.Duration
	logger   *slog.Logger
	now      func() time.Time

	cron *cron.Cron
}

// NewDueReminder creates a reminder. Nothing is scheduled until Start.
func NewDueReminder(debts portsrepo.DebtReader, notifier portssvc.ChangeNotifier, window time.Duration, logger *slog.Logger) *DueReminder {
	if logger == nil {
		logger = slog.Default()
	}
	return &DueReminder{
		debts:    debts,
		notifier: notifier,
		window:   window,
		logger:   logger.With(slog.String("job", "due_reminder")),
		now:      time.Now,
	}
}

// Start schedules RunOnce on the given cron expression.
func (r *DueReminder) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
		defer cancel()
		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error("Due reminder run failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	r.cron = c
	c.Start()
	r.logger.Info("Due reminder scheduled", slog.String("schedule", schedule), slog.Duration("window", r.window))
	return nil
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (r *DueReminder) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		r.logger.Warn("Due reminder did not stop in time")
	}
}

// RunOnce sends one warning per debt due by now+window and returns how many
// were sent. A failing notice is logged and does not stop the run.
func (r *DueReminder) RunOnce(ctx context.Context) (int, error) {
	now := r.now().UTC()
	debts, err := r.debts.ListDebtsDueBefore(ctx, now.Add(r.window))
	if err != nil {
		return 0, fmt.Errorf("list due debts: %w", err)
	}

	sent := 0
	for _, d := range debts {
		if r.notifier == nil {
			break
		}
		if err := r.notifier.Notify(ctx, dueNotice(d, now)); err != nil {
			r.logger.Warn("Failed to send due reminder", slog.String("debt_id", d.DebtID), slog.String("error", err.Error()))
			continue
		}
		sent++
	}

	r.logger.Info("Due reminder run finished", slog.Int("due", len(debts)), slog.Int("sent", sent))
	return sent, nil
}

func dueNotice(d domain.Debt, now time.Time) domain.Notice {
	msg := fmt.Sprintf("%s is due on %s, balance %s", d.Name, d.DueDate.UTC().Format("2006-01-02"), d.Balance.StringFixed(2))
	if d.DueDate.Before(now) {
		msg = fmt.Sprintf("%s is overdue since %s, balance %s", d.Name, d.DueDate.UTC().Format("2006-01-02"), d.Balance.StringFixed(2))
	}
	return domain.Notice{
		Message:  msg,
		Severity: domain.SeverityWarning,
		UserID:   d.UserID,
		Subject:  d.DebtID,
	}
}
