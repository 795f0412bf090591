package service

import "errors"

var (
	// ErrInvoiceNotFound is returned when the referenced invoice does not exist
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrInvalidInvoice is returned when an invoice fails validation on create
	ErrInvalidInvoice = errors.New("invalid invoice")

	// ErrInvalidLeadDays is returned when the reminder lead time is outside
	// the allowed set
	ErrInvalidLeadDays = errors.New("reminder lead days must be one of 1, 3, 5")
)
