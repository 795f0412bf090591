package lifecycle

import "errors"

var (
	// ErrInvalidStatus is returned when a status value is outside the enumerated set
	ErrInvalidStatus = errors.New("invalid invoice status")
)
