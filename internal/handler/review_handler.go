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

// ReviewHandler serves reviews inside the principal's tenant. The public,
// token-addressed surface lives in PublicHandler.
type ReviewHandler struct {
	router *tenantdb.Router
}

// NewReviewHandler creates the review handler.
func NewReviewHandler(router *tenantdb.Router) *ReviewHandler {
	return &ReviewHandler{router: router}
}

// CreateReview records customer feedback for a repair and mints the public
// response token the customer-facing link will carry.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		CustomerID uint   `json:"customer_id"`
		RepairID   uint   `json:"repair_id"`
		Rating     int    `json:"rating"`
		Comment    string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.CustomerID == 0 || req.RepairID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and repair_id are required"})
	}
	// Rating 0 means the review is still awaiting the customer's answer via
	// the public token link.
	if req.Rating < 0 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 0 and 5"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	review := model.Review{
		CustomerID:  req.CustomerID,
		RepairID:    req.RepairID,
		Rating:      req.Rating,
		Comment:     req.Comment,
		PublicToken: model.NewToken(),
	}
	if result := store.WithContext(c.Request().Context()).Create(&review); result.Error != nil {
		log.Error("Failed to create review", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "review creation failed"})
	}

	// The token goes back to the caller once, for building the public link.
	return c.JSON(http.StatusCreated, echo.Map{
		"review":       review,
		"public_token": review.PublicToken,
	})
}

// ListReviews lists the tenant's reviews
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	var reviews []model.Review
	if result := store.WithContext(c.Request().Context()).Order("created_at DESC").Find(&reviews); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list reviews", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"reviews": reviews})
}

// RespondReview records the shop's response to a review
func (h *ReviewHandler) RespondReview(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	var req struct {
		Response string `json:"response"`
	}
	if err := c.Bind(&req); err != nil || req.Response == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "response is required"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	now := time.Now()
	result := store.WithContext(c.Request().Context()).
		Model(&model.Review{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"response": req.Response, "responded_at": &now})
	if result.Error != nil {
		log.Error("Failed to respond to review", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "review update failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "response recorded"})
}
