package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/pkg/database"
)

// PreferenceRepository implements port.PreferenceRepository on SQLite
type PreferenceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *database.DB, logger *zap.Logger) port.PreferenceRepository {
	return &PreferenceRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUserID returns the user's preference record, or nil if none exists
func (r *PreferenceRepository) GetByUserID(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
	query := `
		SELECT user_id, due_date_reminder, overdue_alert, payment_received,
			reminder_lead_days, created_at, updated_at
		FROM notification_preferences
		WHERE user_id = ?
	`

	var pref entity.NotificationPreference
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&pref.UserID,
		&pref.DueDateReminder,
		&pref.OverdueAlert,
		&pref.PaymentReceived,
		&pref.ReminderLeadDays,
		&pref.CreatedAt,
		&pref.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get notification preference",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	return &pref, nil
}

// Upsert creates or replaces the user's preference record, keeping the row
// one-per-user
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *entity.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences (
			user_id, due_date_reminder, overdue_alert, payment_received,
			reminder_lead_days, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			due_date_reminder = excluded.due_date_reminder,
			overdue_alert = excluded.overdue_alert,
			payment_received = excluded.payment_received,
			reminder_lead_days = excluded.reminder_lead_days,
			updated_at = excluded.updated_at
	`

	now := time.Now()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		pref.UserID,
		pref.DueDateReminder,
		pref.OverdueAlert,
		pref.PaymentReceived,
		pref.ReminderLeadDays,
		pref.CreatedAt,
		pref.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to upsert notification preference",
			zap.String("user_id", pref.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to upsert preference: %w", err)
	}

	return nil
}

// Verify interface compliance
var _ port.PreferenceRepository = (*PreferenceRepository)(nil)
