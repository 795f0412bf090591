package lifecycle

import "strings"

// Status represents an invoice payment state
type Status string

const (
	StatusUnpaid  Status = "UNPAID"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

var validStatuses = map[Status]bool{
	StatusUnpaid:  true,
	StatusPaid:    true,
	StatusOverdue: true,
}

// IsValid returns true if the status is one of the enumerated payment states
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Outstanding returns true if the invoice still carries a balance
func (s Status) Outstanding() bool {
	return s == StatusUnpaid || s == StatusOverdue
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// ParseStatus normalizes a caller-supplied status value
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
