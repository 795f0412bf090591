package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

func newReminderService(
	invoiceRepo *mockInvoiceRepo,
	prefRepo *mockPrefRepo,
	logRepo *mockReminderLogRepo,
	dispatcher *mockDispatcher,
) ReminderService {
	invoices := NewInvoiceService(invoiceRepo, prefRepo, dispatcher, lifecycle.DefaultRules(), &mockLogger{})
	return NewReminderService(invoiceRepo, prefRepo, logRepo, dispatcher, invoices, &mockLogger{})
}

func dueInvoice(id int64, due time.Time) *entity.Invoice {
	inv := testInvoice(id, lifecycle.StatusUnpaid)
	inv.Number = fmt.Sprintf("INV-%03d", id)
	inv.DueDate = due
	return inv
}

func TestReminderService_RunSweep_SendsOnReminderDay(t *testing.T) {
	// Scenario: due 2024-06-10, lead 3 days, swept on 2024-06-07
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 7, 15, 30, 0, 0, time.UTC) // time-of-day is stripped

	invoice := dueInvoice(1, due)
	invoiceRepo := &mockInvoiceRepo{
		listOutstandingFunc: func(ctx context.Context) ([]*entity.Invoice, error) {
			return []*entity.Invoice{invoice}, nil
		},
	}
	prefRepo := &mockPrefRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
			return allEnabledPref(), nil
		},
	}
	logRepo := &mockReminderLogRepo{}
	dispatcher := &mockDispatcher{}
	svc := newReminderService(invoiceRepo, prefRepo, logRepo, dispatcher)

	summary, err := svc.RunSweep(context.Background(), today)
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}

	if summary.Sent != 1 {
		t.Fatalf("sent = %d, want 1", summary.Sent)
	}
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].kind != lifecycle.NotificationDueDateReminder {
		t.Fatalf("expected one due-date reminder, got %+v", dispatcher.sent)
	}
	if dispatcher.sent[0].recipient != "client@globex.test" {
		t.Errorf("reminder recipient = %s, want the billed-to email", dispatcher.sent[0].recipient)
	}

	wantDay := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	if len(logRepo.created) != 1 || !logRepo.created[0].ReminderDate.Equal(wantDay) {
		t.Errorf("ledger entries = %+v, want one for %s", logRepo.created, wantDay.Format("2006-01-02"))
	}
}

func TestReminderService_RunSweep_SecondRunIsIdempotent(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)

	invoice := dueInvoice(1, due)
	invoiceRepo := &mockInvoiceRepo{
		listOutstandingFunc: func(ctx context.Context) ([]*entity.Invoice, error) {
			return []*entity.Invoice{invoice}, nil
		},
	}
	prefRepo := &mockPrefRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
			return allEnabledPref(), nil
		},
	}
	logRepo := &mockReminderLogRepo{}
	dispatcher := &mockDispatcher{}
	svc := newReminderService(invoiceRepo, prefRepo, logRepo, dispatcher)

	first, err := svc.RunSweep(context.Background(), today)
	if err != nil {
		t.Fatalf("first RunSweep() error = %v", err)
	}
	second, err := svc.RunSweep(context.Background(), today)
	if err != nil {
		t.Fatalf("second RunSweep() error = %v", err)
	}

	if first.Sent != 1 {
		t.Errorf("first run sent = %d, want 1", first.Sent)
	}
	if second.Sent != 0 || second.Skipped != 1 {
		t.Errorf("second run sent/skipped = %d/%d, want 0/1", second.Sent, second.Skipped)
	}
	if len(dispatcher.sent) != 1 {
		t.Errorf("total emails = %d, want exactly 1 across both runs", len(dispatcher.sent))
	}
}

func TestReminderService_RunSweep_ExactDayBoundary(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		today    time.Time
		wantSent int
	}{
		{"one day early", time.Date(2024, 6, 6, 0, 0, 0, 0, time.UTC), 0},
		{"reminder day", time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC), 1},
		{"one day late", time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := dueInvoice(1, due)
			invoiceRepo := &mockInvoiceRepo{
				listOutstandingFunc: func(ctx context.Context) ([]*entity.Invoice, error) {
					return []*entity.Invoice{invoice}, nil
				},
			}
			prefRepo := &mockPrefRepo{
				getByUserIDFunc: func(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
					return allEnabledPref(), nil
				},
			}
			dispatcher := &mockDispatcher{}
			svc := newReminderService(invoiceRepo, prefRepo, &mockReminderLogRepo{}, dispatcher)

			summary, err := svc.RunSweep(context.Background(), tt.today)
			if err != nil {
				t.Fatalf("RunSweep() error = %v", err)
			}
			if summary.Sent != tt.wantSent {
				t.Errorf("sent = %d, want %d", summary.Sent, tt.wantSent)
			}
		})
	}
}

func TestReminderService_RunSweep_SkipsWithoutPreference(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		pref *entity.NotificationPreference
	}{
		{"no record", nil},
		{"reminders disabled", &entity.NotificationPreference{
			UserID:           "user-1",
			DueDateReminder:  false,
			ReminderLeadDays: 3,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := dueInvoice(1, due)
			invoiceRepo := &mockInvoiceRepo{
				listOutstandingFunc: func(ctx context.Context) ([]*entity.Invoice, error) {
					return []*entity.Invoice{invoice}, nil
				},
			}
			prefRepo := &mockPrefRepo{
				getByUserIDFunc: func(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
					return tt.pref, nil
				},
			}
			dispatcher := &mockDispatcher{}
			svc := newReminderService(invoiceRepo, prefRepo, &mockReminderLogRepo{}, dispatcher)

			summary, err := svc.RunSweep(context.Background(), today)
			if err != nil {
				t.Fatalf("RunSweep() error = %v", err)
			}
			if summary.Sent != 0 || summary.Skipped != 1 {
				t.Errorf("sent/skipped = %d/%d, want 0/1", summary.Sent, summary.Skipped)
			}
			if len(dispatcher.sent) != 0 {
				t.Errorf("expected no emails, got %d", len(dispatcher.sent))
			}
		})
	}
}

func TestReminderService_RunSweep_SendFailureLeavesNoLedgerEntry(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)

	invoice := dueInvoice(1, due)
	invoiceRepo := &mockInvoiceRepo{
		listOutstandingFunc: func(ctx context.Context) ([]*entity.Invoice, error) {
			return []*entity.Invoice{invoice}, nil
		},
	}
	prefRepo := &mockPrefRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
			return allEnabledPref(), nil
		},
	}
	logRepo := &mockReminderLogRepo{}
	dispatcher := &mockDispatcher{
		sendFunc: func(ctx context.Context, kind lifecycle.NotificationKind, invoice *entity.Invoice, recipient string) error {
			return fmt.Errorf("smtp relay unavailable")
		},
	}
	svc := newReminderService(invoiceRepo, prefRepo, logRepo, dispatcher)

	summary, err := svc.RunSweep(context.Background(), today)
	if err != nil {
		t.Fatalf("RunSweep() must not fail for one invoice, got %v", err)
	}
	if summary.Sent != 0 || summary.Skipped != 1 {
		t.Errorf("sent/skipped = %d/%d, want 0/1", summary.Sent, summary.Skipped)
	}
	if len(logRepo.created) != 0 {
		t.Errorf("failed send must not be recorded in the ledger")
	}
}

func TestReminderService_RunSweep_MarksElapsedInvoicesOverdue(t *testing.T) {
	today := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	pastDue := dueInvoice(1, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	dueToday := dueInvoice(2, today)
	alreadyOverdue := dueInvoice(3, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	alreadyOverdue.Status = lifecycle.StatusOverdue

	byID := map[int64]*entity.Invoice{1: pastDue, 2: dueToday, 3: alreadyOverdue}
	invoiceRepo := &mockInvoiceRepo{
		listOutstandingFunc: func(ctx context.Context) ([]*entity.Invoice, error) {
			return []*entity.Invoice{pastDue, dueToday, alreadyOverdue}, nil
		},
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Invoice, error) {
			return byID[id], nil
		},
	}
	prefRepo := &mockPrefRepo{
		getByUserIDFunc: func(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
			return allEnabledPref(), nil
		},
	}
	dispatcher := &mockDispatcher{}
	svc := newReminderService(invoiceRepo, prefRepo, &mockReminderLogRepo{}, dispatcher)

	summary, err := svc.RunSweep(context.Background(), today)
	if err != nil {
		t.Fatalf("RunSweep() error = %v", err)
	}

	if summary.MarkedOverdue != 1 {
		t.Errorf("marked overdue = %d, want 1 (only the elapsed unpaid invoice)", summary.MarkedOverdue)
	}
	if len(invoiceRepo.statusUpdates) != 1 || invoiceRepo.statusUpdates[0] != lifecycle.StatusOverdue {
		t.Errorf("status writes = %v, want [OVERDUE]", invoiceRepo.statusUpdates)
	}
	// The overdue transition goes through the engine, so the alert fires
	if len(dispatcher.sent) != 1 || dispatcher.sent[0].kind != lifecycle.NotificationOverdueAlert {
		t.Errorf("sends = %+v, want one overdue alert", dispatcher.sent)
	}
}
