package entity

import (
	"time"

	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

// Rounding modes for the invoice grand total
const (
	RoundingNone    = "none"
	RoundingNearest = "nearest"
)

// Party represents one side of an invoice (billed-by or billed-to)
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
}

// LineItem represents a single billed line on an invoice
type LineItem struct {
	ID        int64   `json:"id"`
	InvoiceID int64   `json:"invoice_id"`
	Position  int     `json:"position"`
	Name      string  `json:"name"`
	TaxCode   string  `json:"tax_code"`
	TaxRate   float64 `json:"tax_rate"` // percent, split evenly across the two tax components
	Quantity  float64 `json:"quantity"`
	UnitRate  float64 `json:"unit_rate"`
}

// Amount returns the pre-tax amount of the line
func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitRate
}

// Totals holds the computed monetary summary of an invoice.
// GrandTotal = Subtotal + CGST + SGST - Discount + Charges, optionally rounded.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	CGST          float64 `json:"cgst"`
	SGST          float64 `json:"sgst"`
	Discount      float64 `json:"discount"`
	Charges       float64 `json:"charges"`
	RoundingMode  string  `json:"rounding_mode"`
	GrandTotal    float64 `json:"grand_total"`
	TotalQuantity float64 `json:"total_quantity"`
}

// Invoice represents a billing document issued by one party to another
type Invoice struct {
	ID          int64            `json:"id"`
	OwnerID     string           `json:"owner_id"`
	Number      string           `json:"invoice_number"`
	InvoiceDate time.Time        `json:"invoice_date"`
	DueDate     time.Time        `json:"due_date"`
	BilledBy    Party            `json:"billed_by"`
	BilledTo    Party            `json:"billed_to"`
	Items       []LineItem       `json:"items"`
	Totals      Totals           `json:"totals"`
	Status      lifecycle.Status `json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AmountDue returns the amount outstanding on the invoice
func (inv *Invoice) AmountDue() float64 {
	if inv.Status == lifecycle.StatusPaid {
		return 0
	}
	return inv.Totals.GrandTotal
}
