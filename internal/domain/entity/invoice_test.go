package entity

import (
	"testing"
	"time"

	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

func TestDayTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	in := time.Date(2024, 6, 7, 23, 45, 12, 999, loc)

	got := Day(in)

	want := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day() = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("Day() location = %v, want UTC", got.Location())
	}
}

func TestDayIsIdempotent(t *testing.T) {
	day := Day(time.Date(2024, 6, 7, 15, 30, 0, 0, time.UTC))
	if !Day(day).Equal(day) {
		t.Errorf("Day(Day(t)) = %v, want %v", Day(day), day)
	}
}

func TestLineItemAmount(t *testing.T) {
	item := LineItem{Quantity: 3, UnitRate: 250.5}
	if got := item.Amount(); got != 751.5 {
		t.Errorf("Amount() = %v, want 751.5", got)
	}
}

func TestAmountDue(t *testing.T) {
	inv := &Invoice{
		Totals: Totals{GrandTotal: 1180},
		Status: lifecycle.StatusUnpaid,
	}
	if got := inv.AmountDue(); got != 1180 {
		t.Errorf("AmountDue() on unpaid = %v, want 1180", got)
	}

	inv.Status = lifecycle.StatusPaid
	if got := inv.AmountDue(); got != 0 {
		t.Errorf("AmountDue() on paid = %v, want 0", got)
	}

	inv.Status = lifecycle.StatusOverdue
	if got := inv.AmountDue(); got != 1180 {
		t.Errorf("AmountDue() on overdue = %v, want 1180", got)
	}
}

func TestValidLeadDays(t *testing.T) {
	for _, d := range AllowedLeadDays {
		if !ValidLeadDays(d) {
			t.Errorf("ValidLeadDays(%d) = false, want true", d)
		}
	}
	for _, d := range []int{0, 2, 4, 6, 7, -1} {
		if ValidLeadDays(d) {
			t.Errorf("ValidLeadDays(%d) = true, want false", d)
		}
	}
}
