package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// QuoteHandler serves cost estimates against the principal's tenant store.
type QuoteHandler struct {
	router *tenantdb.Router
}

// NewQuoteHandler creates the quote handler.
func NewQuoteHandler(router *tenantdb.Router) *QuoteHandler {
	return &QuoteHandler{router: router}
}

// CreateQuote creates a cost estimate for a customer, optionally tied to a repair
func (h *QuoteHandler) CreateQuote(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		CustomerID uint       `json:"customer_id"`
		RepairID   *uint      `json:"repair_id,omitempty"`
		Total      float64    `json:"total"`
		ValidUntil *time.Time `json:"valid_until,omitempty"`
		Notes      string     `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.CustomerID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id is required"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	quote := model.Quote{
		CustomerID: req.CustomerID,
		RepairID:   req.RepairID,
		Total:      req.Total,
		Status:     model.QuoteDraft,
		ValidUntil: req.ValidUntil,
		Notes:      req.Notes,
	}
	if result := store.WithContext(c.Request().Context()).Create(&quote); result.Error != nil {
		log.Error("Failed to create quote", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "quote creation failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"quote": quote})
}

// ListQuotes lists quotes, optionally filtered by status
func (h *QuoteHandler) ListQuotes(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	query := store.WithContext(c.Request().Context()).Order("created_at DESC")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var quotes []model.Quote
	if result := query.Find(&quotes); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list quotes", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"quotes": quotes})
}

// UpdateQuoteStatus moves a quote between draft/sent/accepted/declined
func (h *QuoteHandler) UpdateQuoteStatus(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	switch req.Status {
	case model.QuoteDraft, model.QuoteSent, model.QuoteAccepted, model.QuoteDeclined:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown quote status"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	result := store.WithContext(c.Request().Context()).Model(&model.Quote{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		log.Error("Failed to update quote status", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status update failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "quote not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "status updated", "status": req.Status})
}
