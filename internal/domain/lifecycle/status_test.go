package lifecycle

import (
	"errors"
	"testing"
)

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"unpaid", StatusUnpaid, true},
		{"paid", StatusPaid, true},
		{"overdue", StatusOverdue, true},
		{"unknown value", Status("BOGUS"), false},
		{"empty value", Status(""), false},
		{"wrong case", Status("Paid"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_Outstanding(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusUnpaid, true},
		{StatusOverdue, true},
		{StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Outstanding(); got != tt.expected {
				t.Errorf("Status.Outstanding() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Status
		wantErr bool
	}{
		{"uppercase", "PAID", StatusPaid, false},
		{"mixed case", "Overdue", StatusOverdue, false},
		{"lowercase with spaces", "  unpaid ", StatusUnpaid, false},
		{"bogus", "Bogus", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatus) {
					t.Errorf("ParseStatus(%q) error = %v, want ErrInvalidStatus", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
