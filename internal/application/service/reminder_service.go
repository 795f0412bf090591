package service

import (
	"context"
	"errors"
	"time"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

// SweepSummary reports what a single sweep run did
type SweepSummary struct {
	Sent          int `json:"sent"`
	Skipped       int `json:"skipped"`
	MarkedOverdue int `json:"marked_overdue"`
}

// ReminderService runs the daily due-date reminder sweep
type ReminderService interface {
	// RunSweep evaluates every outstanding invoice for today. It marks
	// past-due unpaid invoices overdue, then sends due-date reminders,
	// deduplicated through the reminder ledger. Running it repeatedly on the
	// same calendar day sends at most one reminder per invoice.
	RunSweep(ctx context.Context, today time.Time) (*SweepSummary, error)
}

type reminderServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	prefRepo    port.PreferenceRepository
	logRepo     port.ReminderLogRepository
	dispatcher  port.NotificationDispatcher
	invoices    InvoiceService
	logger      Logger
}

// NewReminderService creates a new ReminderService. Overdue marking is
// routed through the InvoiceService so there is exactly one transition
// entry point in the system.
func NewReminderService(
	invoiceRepo port.InvoiceRepository,
	prefRepo port.PreferenceRepository,
	logRepo port.ReminderLogRepository,
	dispatcher port.NotificationDispatcher,
	invoices InvoiceService,
	logger Logger,
) ReminderService {
	return &reminderServiceImpl{
		invoiceRepo: invoiceRepo,
		prefRepo:    prefRepo,
		logRepo:     logRepo,
		dispatcher:  dispatcher,
		invoices:    invoices,
		logger:      logger,
	}
}

// RunSweep processes all outstanding invoices for the given day. A failure
// on one invoice is logged and the sweep continues with the next.
func (s *reminderServiceImpl) RunSweep(ctx context.Context, today time.Time) (*SweepSummary, error) {
	day := entity.Day(today)

	outstanding, err := s.invoiceRepo.ListOutstanding(ctx)
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{}

	for _, invoice := range outstanding {
		if s.markOverdue(ctx, invoice, day) {
			summary.MarkedOverdue++
		}
	}

	for _, invoice := range outstanding {
		if s.remind(ctx, invoice, day) {
			summary.Sent++
		} else {
			summary.Skipped++
		}
	}

	s.logger.Info("Reminder sweep completed",
		"day", day.Format("2006-01-02"),
		"sent", summary.Sent,
		"skipped", summary.Skipped,
		"marked_overdue", summary.MarkedOverdue)

	return summary, nil
}

// markOverdue flips an unpaid invoice to OVERDUE once its due date has
// elapsed, through the regular transition engine so the overdue alert fires
// under the usual preference gating.
func (s *reminderServiceImpl) markOverdue(ctx context.Context, invoice *entity.Invoice, day time.Time) bool {
	if invoice.Status != lifecycle.StatusUnpaid {
		return false
	}
	if !entity.Day(invoice.DueDate).Before(day) {
		return false
	}

	if _, err := s.invoices.ChangeStatus(ctx, invoice.ID, lifecycle.StatusOverdue.String()); err != nil {
		s.logger.Error("Failed to mark invoice overdue",
			"invoice_id", invoice.ID,
			"error", err)
		return false
	}

	invoice.Status = lifecycle.StatusOverdue
	return true
}

// remind sends the due-date reminder for one invoice if today is its
// reminder day and none was recorded yet. Returns true only when an email
// actually went out.
func (s *reminderServiceImpl) remind(ctx context.Context, invoice *entity.Invoice, day time.Time) bool {
	pref, err := s.prefRepo.GetByUserID(ctx, invoice.OwnerID)
	if err != nil {
		s.logger.Error("Failed to load preference during sweep",
			"invoice_id", invoice.ID,
			"owner_id", invoice.OwnerID,
			"error", err)
		return false
	}
	if pref == nil || !pref.DueDateReminder {
		return false
	}

	reminderDate := entity.Day(invoice.DueDate.AddDate(0, 0, -pref.ReminderLeadDays))
	if !reminderDate.Equal(day) {
		return false
	}

	sent, err := s.logRepo.Exists(ctx, invoice.ID, day)
	if err != nil {
		s.logger.Error("Failed to check reminder ledger",
			"invoice_id", invoice.ID,
			"error", err)
		return false
	}
	if sent {
		return false
	}

	recipient := invoice.BilledTo.Email
	if recipient == "" {
		s.logger.Warn("No client email on invoice, skipping reminder",
			"invoice_id", invoice.ID)
		return false
	}

	if err := s.dispatcher.Send(ctx, lifecycle.NotificationDueDateReminder, invoice, recipient); err != nil {
		s.logger.Error("Failed to send reminder",
			"invoice_id", invoice.ID,
			"recipient", recipient,
			"error", err)
		return false
	}

	if err := s.logRepo.Create(ctx, invoice.ID, day); err != nil {
		if errors.Is(err, port.ErrDuplicateReminder) {
			// A concurrent sweep got here first; the unique pair in the
			// ledger is what closes the check-then-act window.
			s.logger.Warn("Reminder already recorded by a concurrent run",
				"invoice_id", invoice.ID)
		} else {
			s.logger.Error("Failed to record reminder",
				"invoice_id", invoice.ID,
				"error", err)
		}
	}

	s.logger.Info("Reminder sent",
		"invoice_id", invoice.ID,
		"invoice_number", invoice.Number,
		"recipient", recipient,
		"due_date", invoice.DueDate.Format("2006-01-02"))

	return true
}
