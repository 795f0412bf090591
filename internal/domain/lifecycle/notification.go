package lifecycle

// NotificationKind identifies a lifecycle event that may trigger an email
type NotificationKind string

const (
	NotificationPaymentReceived NotificationKind = "PAYMENT_RECEIVED"
	NotificationOverdueAlert    NotificationKind = "OVERDUE_ALERT"
	NotificationDueDateReminder NotificationKind = "DUE_DATE_REMINDER"
)

// String returns the string representation of the notification kind
func (k NotificationKind) String() string {
	return string(k)
}
