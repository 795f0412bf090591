package port

import "errors"

var (
	// ErrDuplicateInvoiceNumber is returned when an owner already has an
	// invoice with the same number
	ErrDuplicateInvoiceNumber = errors.New("invoice number already in use")

	// ErrDuplicateReminder is returned when a reminder ledger entry already
	// exists for the (invoice, day) pair
	ErrDuplicateReminder = errors.New("reminder already recorded for this day")
)
