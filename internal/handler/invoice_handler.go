package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// InvoiceHandler serves invoices against the principal's tenant store.
type InvoiceHandler struct {
	router *tenantdb.Router
}

// NewInvoiceHandler creates the invoice handler.
func NewInvoiceHandler(router *tenantdb.Router) *InvoiceHandler {
	return &InvoiceHandler{router: router}
}

// CreateInvoice issues an invoice, optionally derived from an accepted quote
func (h *InvoiceHandler) CreateInvoice(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		CustomerID uint       `json:"customer_id"`
		QuoteID    *uint      `json:"quote_id,omitempty"`
		RepairID   *uint      `json:"repair_id,omitempty"`
		Total      float64    `json:"total"`
		DueAt      *time.Time `json:"due_at,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	var invoice model.Invoice
	err := store.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customerID := req.CustomerID
		total := req.Total

		// Deriving from a quote copies its customer and total.
		if req.QuoteID != nil {
			var quote model.Quote
			if result := tx.First(&quote, *req.QuoteID); result.Error != nil {
				return fmt.Errorf("quote not found")
			}
			if quote.Status != model.QuoteAccepted {
				return fmt.Errorf("quote is not accepted")
			}
			customerID = quote.CustomerID
			total = quote.Total
		}
		if customerID == 0 {
			return fmt.Errorf("customer_id is required")
		}

		var count int64
		if err := tx.Model(&model.Invoice{}).Unscoped().Count(&count).Error; err != nil {
			return err
		}

		invoice = model.Invoice{
			Number:     fmt.Sprintf("INV-%s-%05d", time.Now().Format("2006"), count+1),
			CustomerID: customerID,
			QuoteID:    req.QuoteID,
			RepairID:   req.RepairID,
			Total:      total,
			Status:     model.InvoiceOpen,
			IssuedAt:   time.Now(),
			DueAt:      req.DueAt,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		log.Warn("Failed to create invoice", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	log.Info("Invoice issued", zap.String("number", invoice.Number), zap.Float64("total", invoice.Total))
	return c.JSON(http.StatusCreated, echo.Map{"invoice": invoice})
}

// ListInvoices lists invoices, optionally filtered by status
func (h *InvoiceHandler) ListInvoices(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	query := store.WithContext(c.Request().Context()).Order("issued_at DESC")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []model.Invoice
	if result := query.Find(&invoices); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list invoices", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"invoices": invoices})
}

// MarkInvoicePaid settles an open invoice
func (h *InvoiceHandler) MarkInvoicePaid(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	now := time.Now()
	result := store.WithContext(c.Request().Context()).
		Model(&model.Invoice{}).
		Where("id = ? AND status = ?", id, model.InvoiceOpen).
		Updates(map[string]interface{}{"status": model.InvoicePaid, "paid_at": &now})
	if result.Error != nil {
		log.Error("Failed to mark invoice paid", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invoice update failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invoice is not open or does not exist"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "invoice paid"})
}
