package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
	"github.com/arjunpat/billflow/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// InvoiceService manages invoices and their payment-status lifecycle
type InvoiceService interface {
	Create(ctx context.Context, invoice *entity.Invoice) (*entity.Invoice, error)
	Get(ctx context.Context, id int64) (*entity.Invoice, error)
	List(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error)
	ChangeStatus(ctx context.Context, id int64, requestedStatus string) (*entity.Invoice, error)
}

type invoiceServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	prefRepo    port.PreferenceRepository
	dispatcher  port.NotificationDispatcher
	rules       *lifecycle.RuleSet
	logger      Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	prefRepo port.PreferenceRepository,
	dispatcher port.NotificationDispatcher,
	rules *lifecycle.RuleSet,
	logger Logger,
) InvoiceService {
	return &invoiceServiceImpl{
		invoiceRepo: invoiceRepo,
		prefRepo:    prefRepo,
		dispatcher:  dispatcher,
		rules:       rules,
		logger:      logger,
	}
}

// Create validates a new invoice, computes its totals and persists it with
// status UNPAID
func (s *invoiceServiceImpl) Create(ctx context.Context, invoice *entity.Invoice) (*entity.Invoice, error) {
	if err := validateInvoice(invoice); err != nil {
		return nil, err
	}

	computeTotals(invoice)

	now := time.Now()
	invoice.Status = lifecycle.StatusUnpaid
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		"invoice_id", invoice.ID,
		"invoice_number", invoice.Number,
		"owner_id", invoice.OwnerID,
		"grand_total", invoice.Totals.GrandTotal)

	return invoice, nil
}

// Get retrieves an invoice by ID
func (s *invoiceServiceImpl) Get(ctx context.Context, id int64) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}
	return invoice, nil
}

// List returns an owner's invoices, newest first
func (s *invoiceServiceImpl) List(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	return s.invoiceRepo.List(ctx, ownerID, limit, offset)
}

// ChangeStatus persists a requested status and raises the notification the
// transition maps to, if any. The write is unconditional: untracked
// transitions are accepted as plain status edits and simply raise nothing.
// Notification dispatch is best-effort and never rolls back the write.
func (s *invoiceServiceImpl) ChangeStatus(ctx context.Context, id int64, requestedStatus string) (*entity.Invoice, error) {
	status, err := lifecycle.ParseStatus(requestedStatus)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	previous := invoice.Status
	if err := s.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	invoice.Status = status
	invoice.UpdatedAt = time.Now()

	s.logger.Info("Invoice status changed",
		"invoice_id", id,
		"from", previous.String(),
		"to", status.String())

	if kind, tracked := s.rules.Lookup(previous, status); tracked {
		s.notifyOwner(ctx, kind, invoice)
	}

	return invoice, nil
}

// notifyOwner sends a lifecycle email to the invoice owner when their
// preference allows it. Failures are logged and swallowed: the status write
// has already been committed and stays committed.
func (s *invoiceServiceImpl) notifyOwner(ctx context.Context, kind lifecycle.NotificationKind, invoice *entity.Invoice) {
	pref, err := s.prefRepo.GetByUserID(ctx, invoice.OwnerID)
	if err != nil {
		s.logger.Error("Failed to load notification preference",
			"owner_id", invoice.OwnerID,
			"error", err)
		return
	}
	if pref == nil {
		// No preference record means all notifications are off
		return
	}

	var enabled bool
	switch kind {
	case lifecycle.NotificationPaymentReceived:
		enabled = pref.PaymentReceived
	case lifecycle.NotificationOverdueAlert:
		enabled = pref.OverdueAlert
	default:
		enabled = false
	}
	if !enabled {
		return
	}

	recipient := invoice.BilledBy.Email
	if recipient == "" {
		s.logger.Warn("No owner email on invoice, skipping notification",
			"invoice_id", invoice.ID,
			"kind", kind.String())
		return
	}

	if err := s.dispatcher.Send(ctx, kind, invoice, recipient); err != nil {
		s.logger.Error("Failed to dispatch notification",
			"invoice_id", invoice.ID,
			"kind", kind.String(),
			"error", err)
		return
	}

	s.logger.Info("Notification dispatched",
		"invoice_id", invoice.ID,
		"kind", kind.String(),
		"recipient", recipient)
}

// validateInvoice checks the fields callers control directly
func validateInvoice(invoice *entity.Invoice) error {
	if invoice.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidInvoice)
	}
	if invoice.Number == "" {
		return fmt.Errorf("%w: invoice number is required", ErrInvalidInvoice)
	}
	if invoice.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalidInvoice)
	}
	if invoice.BilledBy.Email != "" {
		if err := utils.ValidateEmail(invoice.BilledBy.Email); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
		}
	}
	if invoice.BilledTo.Email != "" {
		if err := utils.ValidateEmail(invoice.BilledTo.Email); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInvoice, err)
		}
	}
	for i, item := range invoice.Items {
		if item.Quantity < 0 || item.UnitRate < 0 {
			return fmt.Errorf("%w: line %d has negative quantity or rate", ErrInvalidInvoice, i+1)
		}
	}
	switch invoice.Totals.RoundingMode {
	case "", entity.RoundingNone, entity.RoundingNearest:
	default:
		return fmt.Errorf("%w: unknown rounding mode %q", ErrInvalidInvoice, invoice.Totals.RoundingMode)
	}
	return nil
}

// computeTotals fills in the derived totals from the line items. The line
// tax is split evenly between the two tax components.
func computeTotals(invoice *entity.Invoice) {
	t := &invoice.Totals
	t.Subtotal = 0
	t.CGST = 0
	t.SGST = 0
	t.TotalQuantity = 0

	for i := range invoice.Items {
		item := &invoice.Items[i]
		item.Position = i

		amount := item.Amount()
		tax := amount * item.TaxRate / 100

		t.Subtotal += amount
		t.CGST += tax / 2
		t.SGST += tax / 2
		t.TotalQuantity += item.Quantity
	}

	if t.RoundingMode == "" {
		t.RoundingMode = entity.RoundingNone
	}

	total := t.Subtotal + t.CGST + t.SGST - t.Discount + t.Charges
	if t.RoundingMode == entity.RoundingNearest {
		total = math.Round(total)
	}
	t.GrandTotal = total
}
