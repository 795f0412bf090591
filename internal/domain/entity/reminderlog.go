package entity

import "time"

// ReminderLog is one entry in the append-only reminder ledger. At most one
// entry exists per (invoice, calendar day) pair; entries are never updated
// or deleted.
type ReminderLog struct {
	ID           int64     `json:"id"`
	InvoiceID    int64     `json:"invoice_id"`
	ReminderDate time.Time `json:"reminder_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// Day truncates t to midnight UTC. All reminder-date comparisons and ledger
// keys use this normalization.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
