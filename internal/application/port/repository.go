package port

import (
	"context"
	"time"

	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

// InvoiceRepository defines persistence operations for Invoice
type InvoiceRepository interface {
	// Create persists a new invoice and its line items, assigning IDs
	Create(ctx context.Context, invoice *entity.Invoice) error

	// GetByID retrieves an invoice with its line items, nil when absent
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)

	// List returns invoices for an owner, newest first
	List(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error)

	// ListOutstanding returns all invoices whose status is not PAID
	ListOutstanding(ctx context.Context) ([]*entity.Invoice, error)

	// UpdateStatus persists a status change
	UpdateStatus(ctx context.Context, id int64, status lifecycle.Status) error
}

// PreferenceRepository defines persistence operations for NotificationPreference
type PreferenceRepository interface {
	// GetByUserID returns the user's preference record, or nil if none exists
	GetByUserID(ctx context.Context, userID string) (*entity.NotificationPreference, error)

	// Upsert creates or replaces the user's preference record
	Upsert(ctx context.Context, pref *entity.NotificationPreference) error
}

// ReminderLogRepository defines persistence operations for the reminder ledger
type ReminderLogRepository interface {
	// Exists reports whether a reminder was already recorded for the invoice on day
	Exists(ctx context.Context, invoiceID int64, day time.Time) (bool, error)

	// Create records a sent reminder. Returns ErrDuplicateReminder when an
	// entry for (invoiceID, day) already exists.
	Create(ctx context.Context, invoiceID int64, day time.Time) error
}
