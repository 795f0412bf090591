package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/arjunpat/billflow/internal/application/port"
)

const exportSheet = "Invoices"

var exportHeaders = []string{
	"Invoice Number", "Invoice Date", "Due Date", "Billed By", "Billed To",
	"Subtotal", "CGST", "SGST", "Discount", "Charges", "Grand Total", "Status",
}

// ExportService renders an owner's invoice ledger as an Excel workbook
type ExportService interface {
	ExportLedger(ctx context.Context, ownerID string) (*excelize.File, error)
}

type exportServiceImpl struct {
	invoiceRepo port.InvoiceRepository
	logger      Logger
}

// NewExportService creates a new ExportService
func NewExportService(invoiceRepo port.InvoiceRepository, logger Logger) ExportService {
	return &exportServiceImpl{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// ExportLedger writes one row per invoice, newest first
func (s *exportServiceImpl) ExportLedger(ctx context.Context, ownerID string) (*excelize.File, error) {
	invoices, err := s.invoiceRepo.List(ctx, ownerID, 0, 0)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, invoice := range invoices {
		values := []interface{}{
			invoice.Number,
			invoice.InvoiceDate.Format("2006-01-02"),
			invoice.DueDate.Format("2006-01-02"),
			invoice.BilledBy.Name,
			invoice.BilledTo.Name,
			invoice.Totals.Subtotal,
			invoice.Totals.CGST,
			invoice.Totals.SGST,
			invoice.Totals.Discount,
			invoice.Totals.Charges,
			invoice.Totals.GrandTotal,
			invoice.Status.String(),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	s.logger.Info("Invoice ledger exported",
		"owner_id", ownerID,
		"invoices", len(invoices))

	return f, nil
}
