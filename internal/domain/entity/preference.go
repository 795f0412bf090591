package entity

import "time"

// NotificationPreference holds the per-user toggles controlling which
// lifecycle events trigger email. A missing record disables everything.
type NotificationPreference struct {
	UserID           string    `json:"user_id"`
	DueDateReminder  bool      `json:"due_date_reminder"`
	OverdueAlert     bool      `json:"overdue_alert"`
	PaymentReceived  bool      `json:"payment_received"`
	ReminderLeadDays int       `json:"reminder_lead_days"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// AllowedLeadDays is the enumerated set of reminder lead times
var AllowedLeadDays = []int{1, 3, 5}

// ValidLeadDays returns true if days is an allowed reminder lead time
func ValidLeadDays(days int) bool {
	for _, d := range AllowedLeadDays {
		if d == days {
			return true
		}
	}
	return false
}
