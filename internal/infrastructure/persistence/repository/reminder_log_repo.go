package repository

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/pkg/database"
)

// ReminderLogRepository implements port.ReminderLogRepository on SQLite.
// Days are stored as date-only strings so equality checks stay exact.
type ReminderLogRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewReminderLogRepository creates a new reminder log repository
func NewReminderLogRepository(db *database.DB, logger *zap.Logger) port.ReminderLogRepository {
	return &ReminderLogRepository{
		db:     db,
		logger: logger,
	}
}

// Exists reports whether a reminder was already recorded for the invoice on day
func (r *ReminderLogRepository) Exists(ctx context.Context, invoiceID int64, day time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reminder_logs WHERE invoice_id = ? AND reminder_date = ?
		)
	`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, invoiceID, day.Format(dayFormat)).Scan(&exists)
	if err != nil {
		r.logger.Error("Failed to check reminder ledger",
			zap.Int64("invoice_id", invoiceID),
			zap.Error(err))
		return false, fmt.Errorf("failed to check reminder ledger: %w", err)
	}

	return exists, nil
}

// Create records a sent reminder. The unique (invoice_id, reminder_date)
// pair turns a lost race between concurrent sweeps into ErrDuplicateReminder.
func (r *ReminderLogRepository) Create(ctx context.Context, invoiceID int64, day time.Time) error {
	query := `INSERT INTO reminder_logs (invoice_id, reminder_date) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, invoiceID, day.Format(dayFormat))
	if err != nil {
		if isUniqueViolation(err) {
			return port.ErrDuplicateReminder
		}
		r.logger.Error("Failed to record reminder",
			zap.Int64("invoice_id", invoiceID),
			zap.Error(err))
		return fmt.Errorf("failed to record reminder: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.ReminderLogRepository = (*ReminderLogRepository)(nil)
