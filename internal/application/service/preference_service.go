package service

import (
	"context"
	"time"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/domain/entity"
)

// PreferenceService manages per-user notification preferences
type PreferenceService interface {
	// Get returns the user's preferences. When no record exists it returns a
	// zero record with every toggle off, mirroring the fail-closed behavior
	// of the dispatch paths.
	Get(ctx context.Context, userID string) (*entity.NotificationPreference, error)

	// Update validates and persists the user's preferences
	Update(ctx context.Context, pref *entity.NotificationPreference) error
}

type preferenceServiceImpl struct {
	prefRepo port.PreferenceRepository
	logger   Logger
}

// NewPreferenceService creates a new PreferenceService
func NewPreferenceService(prefRepo port.PreferenceRepository, logger Logger) PreferenceService {
	return &preferenceServiceImpl{
		prefRepo: prefRepo,
		logger:   logger,
	}
}

// Get returns the user's preferences, defaulting to everything disabled
func (s *preferenceServiceImpl) Get(ctx context.Context, userID string) (*entity.NotificationPreference, error) {
	pref, err := s.prefRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &entity.NotificationPreference{
			UserID:           userID,
			ReminderLeadDays: 3,
		}, nil
	}
	return pref, nil
}

// Update validates and persists the user's preferences
func (s *preferenceServiceImpl) Update(ctx context.Context, pref *entity.NotificationPreference) error {
	if !entity.ValidLeadDays(pref.ReminderLeadDays) {
		return ErrInvalidLeadDays
	}

	pref.UpdatedAt = time.Now()
	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		return err
	}

	s.logger.Info("Notification preferences updated",
		"user_id", pref.UserID,
		"due_date_reminder", pref.DueDateReminder,
		"overdue_alert", pref.OverdueAlert,
		"payment_received", pref.PaymentReceived,
		"reminder_lead_days", pref.ReminderLeadDays)

	return nil
}
