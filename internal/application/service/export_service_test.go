package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

func TestExportService_ExportLedger(t *testing.T) {
	inv := testInvoice(1, lifecycle.StatusPaid)
	inv.InvoiceDate = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	inv.Totals = entity.Totals{
		Subtotal:   1000,
		CGST:       90,
		SGST:       90,
		GrandTotal: 1180,
	}

	invoiceRepo := &mockInvoiceRepo{
		listFunc: func(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Invoice, error) {
			return []*entity.Invoice{inv}, nil
		},
	}
	svc := NewExportService(invoiceRepo, &mockLogger{})

	f, err := svc.ExportLedger(context.Background(), "user-1")
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one invoice row")

	assert.Equal(t, "Invoice Number", rows[0][0])
	assert.Equal(t, "Status", rows[0][len(exportHeaders)-1])

	assert.Equal(t, "INV-001", rows[1][0])
	assert.Equal(t, "2024-05-20", rows[1][1])
	assert.Equal(t, "2024-06-10", rows[1][2])
	assert.Equal(t, "Acme Studio", rows[1][3])
	assert.Equal(t, "Globex", rows[1][4])
	assert.Equal(t, "PAID", rows[1][len(exportHeaders)-1])
}

func TestExportService_ExportLedger_Empty(t *testing.T) {
	svc := NewExportService(&mockInvoiceRepo{}, &mockLogger{})

	f, err := svc.ExportLedger(context.Background(), "user-1")
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}
