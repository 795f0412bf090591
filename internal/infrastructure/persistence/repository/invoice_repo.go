package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
	"github.com/arjunpat/billflow/pkg/database"
)

const invoiceColumns = `
	id, owner_id, invoice_number, invoice_date, due_date,
	billed_by_name, billed_by_email, billed_by_phone, billed_by_tax_id, billed_by_address,
	billed_to_name, billed_to_email, billed_to_phone, billed_to_tax_id, billed_to_address,
	subtotal, cgst, sgst, discount, charges, rounding_mode, grand_total, total_quantity,
	status, created_at, updated_at
`

// InvoiceRepository implements port.InvoiceRepository on SQLite
type InvoiceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *database.DB, logger *zap.Logger) port.InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists the invoice and its line items in one transaction
func (r *InvoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	err := r.db.WithTransaction(func(tx *sql.Tx) error {
		query := `
			INSERT INTO invoices (
				owner_id, invoice_number, invoice_date, due_date,
				billed_by_name, billed_by_email, billed_by_phone, billed_by_tax_id, billed_by_address,
				billed_to_name, billed_to_email, billed_to_phone, billed_to_tax_id, billed_to_address,
				subtotal, cgst, sgst, discount, charges, rounding_mode, grand_total, total_quantity,
				status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		result, err := tx.ExecContext(ctx, query,
			invoice.OwnerID,
			invoice.Number,
			invoice.InvoiceDate,
			invoice.DueDate,
			invoice.BilledBy.Name,
			invoice.BilledBy.Email,
			invoice.BilledBy.Phone,
			invoice.BilledBy.TaxID,
			invoice.BilledBy.Address,
			invoice.BilledTo.Name,
			invoice.BilledTo.Email,
			invoice.BilledTo.Phone,
			invoice.BilledTo.TaxID,
			invoice.BilledTo.Address,
			invoice.Totals.Subtotal,
			invoice.Totals.CGST,
			invoice.Totals.SGST,
			invoice.Totals.Discount,
			invoice.Totals.Charges,
			invoice.Totals.RoundingMode,
			invoice.Totals.GrandTotal,
			invoice.Totals.TotalQuantity,
			invoice.Status.String(),
			invoice.CreatedAt,
			invoice.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return port.ErrDuplicateInvoiceNumber
			}
			return fmt.Errorf("failed to insert invoice: %w", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		invoice.ID = id

		itemQuery := `
			INSERT INTO invoice_items (invoice_id, position, name, tax_code, tax_rate, quantity, unit_rate)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		for i := range invoice.Items {
			item := &invoice.Items[i]
			itemResult, err := tx.ExecContext(ctx, itemQuery,
				id, i, item.Name, item.TaxCode, item.TaxRate, item.Quantity, item.UnitRate)
			if err != nil {
				return fmt.Errorf("failed to insert line item %d: %w", i, err)
			}
			itemID, err := itemResult.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to get line item id: %w", err)
			}
			item.ID = itemID
			item.InvoiceID = id
			item.Position = i
		}

		return nil
	})

	if err != nil {
		if err != port.ErrDuplicateInvoiceNumber {
			r.logger.Error("Failed to create invoice",
				zap.String("invoice_number", invoice.Number),
				zap.Error(err))
		}
		return err
	}

	return nil
}

// GetByID retrieves an invoice with its line items, nil when absent
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ?`

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if err := r.loadItems(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// List returns invoices for an owner, newest first. A non-positive limit
// returns everything.
func (r *InvoiceRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE owner_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, err
	}

	for _, invoice := range invoices {
		if err := r.loadItems(ctx, invoice); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// ListOutstanding returns every invoice whose status is not PAID, in
// storage order
func (r *InvoiceRepository) ListOutstanding(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE status != ? ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, lifecycle.StatusPaid.String())
	if err != nil {
		r.logger.Error("Failed to list outstanding invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list outstanding invoices: %w", err)
	}
	defer rows.Close()

	invoices, err := collectInvoices(rows)
	if err != nil {
		return nil, err
	}

	for _, invoice := range invoices {
		if err := r.loadItems(ctx, invoice); err != nil {
			return nil, err
		}
	}
	return invoices, nil
}

// UpdateStatus persists a status change
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int64, status lifecycle.Status) error {
	query := `UPDATE invoices SET status = ?, updated_at = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, status.String(), time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update invoice status",
			zap.Int64("id", id),
			zap.String("status", status.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	return nil
}

// loadItems fills in the invoice's line items in position order
func (r *InvoiceRepository) loadItems(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		SELECT id, invoice_id, position, name, tax_code, tax_rate, quantity, unit_rate
		FROM invoice_items WHERE invoice_id = ? ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, invoice.ID)
	if err != nil {
		return fmt.Errorf("failed to load line items: %w", err)
	}
	defer rows.Close()

	var items []entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Position,
			&item.Name,
			&item.TaxCode,
			&item.TaxRate,
			&item.Quantity,
			&item.UnitRate,
		); err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}
	invoice.Items = items
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var invoice entity.Invoice
	var status string

	err := row.Scan(
		&invoice.ID,
		&invoice.OwnerID,
		&invoice.Number,
		&invoice.InvoiceDate,
		&invoice.DueDate,
		&invoice.BilledBy.Name,
		&invoice.BilledBy.Email,
		&invoice.BilledBy.Phone,
		&invoice.BilledBy.TaxID,
		&invoice.BilledBy.Address,
		&invoice.BilledTo.Name,
		&invoice.BilledTo.Email,
		&invoice.BilledTo.Phone,
		&invoice.BilledTo.TaxID,
		&invoice.BilledTo.Address,
		&invoice.Totals.Subtotal,
		&invoice.Totals.CGST,
		&invoice.Totals.SGST,
		&invoice.Totals.Discount,
		&invoice.Totals.Charges,
		&invoice.Totals.RoundingMode,
		&invoice.Totals.GrandTotal,
		&invoice.Totals.TotalQuantity,
		&status,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	invoice.Status = lifecycle.Status(status)
	return &invoice, nil
}

func collectInvoices(rows *sql.Rows) ([]*entity.Invoice, error) {
	var invoices []*entity.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

// Verify interface compliance
var _ port.InvoiceRepository = (*InvoiceRepository)(nil)
