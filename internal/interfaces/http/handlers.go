package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arjunpat/billflow/internal/application/port"
	"github.com/arjunpat/billflow/internal/application/service"
	"github.com/arjunpat/billflow/internal/domain/entity"
	"github.com/arjunpat/billflow/internal/domain/lifecycle"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoiceService    service.InvoiceService
	preferenceService service.PreferenceService
	reminderService   service.ReminderService
	exportService     service.ExportService
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	invoiceService service.InvoiceService,
	preferenceService service.PreferenceService,
	reminderService service.ReminderService,
	exportService service.ExportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		invoiceService:    invoiceService,
		preferenceService: preferenceService,
		reminderService:   reminderService,
		exportService:     exportService,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// LineItemRequest represents one invoice line in a create request
type LineItemRequest struct {
	Name     string  `json:"name" binding:"required"`
	TaxCode  string  `json:"tax_code"`
	TaxRate  float64 `json:"tax_rate"`
	Quantity float64 `json:"quantity"`
	UnitRate float64 `json:"unit_rate"`
}

// CreateInvoiceRequest represents the payload for creating an invoice
type CreateInvoiceRequest struct {
	OwnerID      string            `json:"owner_id" binding:"required"`
	Number       string            `json:"invoice_number" binding:"required"`
	InvoiceDate  string            `json:"invoice_date"`
	DueDate      string            `json:"due_date" binding:"required"`
	BilledBy     entity.Party      `json:"billed_by"`
	BilledTo     entity.Party      `json:"billed_to"`
	Items        []LineItemRequest `json:"items"`
	Discount     float64           `json:"discount"`
	Charges      float64           `json:"charges"`
	RoundingMode string            `json:"rounding_mode"`
}

// ChangeStatusRequest represents the payload for a status change
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePreferencesRequest represents the payload for updating preferences
type UpdatePreferencesRequest struct {
	DueDateReminder  bool `json:"due_date_reminder"`
	OverdueAlert     bool `json:"overdue_alert"`
	PaymentReceived  bool `json:"payment_received"`
	ReminderLeadDays int  `json:"reminder_lead_days" binding:"required"`
}

// ListInvoicesRequest represents query parameters for listing invoices
type ListInvoicesRequest struct {
	OwnerID string `form:"owner_id" binding:"required"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// CreateInvoice handles POST /api/v1/invoices
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid create invoice payload", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	invoice, err := toInvoice(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	created, err := h.invoiceService.Create(c.Request.Context(), invoice)
	if err != nil {
		h.respondError(c, err, "failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    created,
	})
}

// ListInvoices handles GET /api/v1/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "owner_id is required",
		})
		return
	}

	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), req.OwnerID, req.Limit, req.Offset)
	if err != nil {
		h.respondError(c, err, "failed to list invoices")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    invoices,
	})
}

// GetInvoice handles GET /api/v1/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to get invoice")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    invoice,
	})
}

// ChangeInvoiceStatus handles PATCH /api/v1/invoices/:id/status
func (h *Handlers) ChangeInvoiceStatus(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "status is required",
		})
		return
	}

	invoice, err := h.invoiceService.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err, "failed to change invoice status")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    invoice,
	})
}

// GetPreferences handles GET /api/v1/preferences/:userID
func (h *Handlers) GetPreferences(c *gin.Context) {
	userID := c.Param("userID")

	pref, err := h.preferenceService.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err, "failed to get preferences")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    pref,
	})
}

// UpdatePreferences handles PUT /api/v1/preferences/:userID
func (h *Handlers) UpdatePreferences(c *gin.Context) {
	userID := c.Param("userID")

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	pref := &entity.NotificationPreference{
		UserID:           userID,
		DueDateReminder:  req.DueDateReminder,
		OverdueAlert:     req.OverdueAlert,
		PaymentReceived:  req.PaymentReceived,
		ReminderLeadDays: req.ReminderLeadDays,
	}

	if err := h.preferenceService.Update(c.Request.Context(), pref); err != nil {
		h.respondError(c, err, "failed to update preferences")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    pref,
	})
}

// RunSweep handles POST /api/v1/sweep/run. An optional date query parameter
// runs the sweep as of that day instead of today.
func (h *Handlers) RunSweep(c *gin.Context) {
	today := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{
				Success: false,
				Error:   "date must be formatted as YYYY-MM-DD",
			})
			return
		}
		today = parsed
	}

	summary, err := h.reminderService.RunSweep(c.Request.Context(), today)
	if err != nil {
		h.respondError(c, err, "sweep failed")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    summary,
	})
}

// ExportInvoices handles GET /api/v1/invoices/export. The workbook is
// streamed as an xlsx download.
func (h *Handlers) ExportInvoices(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "owner_id is required",
		})
		return
	}

	f, err := h.exportService.ExportLedger(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err, "failed to export invoices")
		return
	}

	filename := fmt.Sprintf("invoices-%s.xlsx", time.Now().Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to stream export", "owner_id", ownerID, "error", err)
	}
}

// invoiceID parses the :id path parameter, replying 400 on garbage
func (h *Handlers) invoiceID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Error("Invalid invoice ID", "id", idStr, "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid invoice ID",
		})
		return 0, false
	}
	return id, true
}

// respondError maps application errors onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, lifecycle.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidInvoice),
		errors.Is(err, service.ErrInvalidLeadDays):
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, service.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, port.ErrDuplicateInvoiceNumber):
		c.JSON(http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
		})
	default:
		h.logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   fallback,
		})
	}
}

// toInvoice converts a create request into the domain entity
func toInvoice(req CreateInvoiceRequest) (*entity.Invoice, error) {
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due_date must be formatted as YYYY-MM-DD")
	}

	invoiceDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.InvoiceDate != "" {
		invoiceDate, err = time.Parse(dateLayout, req.InvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("invoice_date must be formatted as YYYY-MM-DD")
		}
	}

	items := make([]entity.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.LineItem{
			Name:     item.Name,
			TaxCode:  item.TaxCode,
			TaxRate:  item.TaxRate,
			Quantity: item.Quantity,
			UnitRate: item.UnitRate,
		})
	}

	return &entity.Invoice{
		OwnerID:     req.OwnerID,
		Number:      req.Number,
		InvoiceDate: invoiceDate,
		DueDate:     dueDate,
		BilledBy:    req.BilledBy,
		BilledTo:    req.BilledTo,
		Items:       items,
		Totals: entity.Totals{
			Discount:     req.Discount,
			Charges:      req.Charges,
			RoundingMode: req.RoundingMode,
		},
	}, nil
}
