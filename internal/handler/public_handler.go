package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// PublicHandler serves token-addressed resources for anonymous visitors:
// review response links and short redirects. The owning tenant is unknown at
// request time, so lookups go through the cross-tenant resolver.
type PublicHandler struct {
	router   *tenantdb.Router
	resolver tenantdb.Resolver
}

// NewPublicHandler creates the public handler.
func NewPublicHandler(router *tenantdb.Router, resolver tenantdb.Resolver) *PublicHandler {
	return &PublicHandler{router: router, resolver: resolver}
}

// resolveError maps resolver failures onto HTTP responses, keeping "nothing
// found anywhere" distinct from "could not search everywhere".
func resolveError(c echo.Context, err error) error {
	log := logger.FromEcho(c)

	var scanErr *tenantdb.ScanError
	switch {
	case errors.Is(err, tenantdb.ErrTokenNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.As(err, &scanErr):
		log.Error("Token scan incomplete", zap.Strings("failed_tenants", scanErr.Failed))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "lookup temporarily incomplete, try again later"})
	default:
		log.Error("Token resolution failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
}

// GetPublicReview returns the review behind a response token
func (h *PublicHandler) GetPublicReview(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}
	ctx := c.Request().Context()

	tenantID, err := h.resolver.Resolve(ctx, func(db *gorm.DB) (bool, error) {
		var n int64
		if err := db.Model(&model.Review{}).Where("public_token = ?", token).Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return resolveError(c, err)
	}

	store, err := h.router.Tenant(ctx, tenantID)
	if err != nil {
		return resolveError(c, err)
	}

	var review model.Review
	if result := store.WithContext(ctx).Where("public_token = ?", token).First(&review); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"review": echo.Map{
			"rating":     review.Rating,
			"comment":    review.Comment,
			"response":   review.Response,
			"created_at": review.CreatedAt,
			"answered":   review.Rating > 0,
		},
	})
}

// RespondPublicReview records the customer's rating and comment for a
// pending review request
func (h *PublicHandler) RespondPublicReview(c echo.Context) error {
	log := logger.FromEcho(c)

	token := c.Param("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token is required"})
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
	}

	ctx := c.Request().Context()
	tenantID, err := h.resolver.Resolve(ctx, func(db *gorm.DB) (bool, error) {
		var n int64
		if err := db.Model(&model.Review{}).Where("public_token = ?", token).Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return resolveError(c, err)
	}

	store, err := h.router.Tenant(ctx, tenantID)
	if err != nil {
		return resolveError(c, err)
	}

	result := store.WithContext(ctx).
		Model(&model.Review{}).
		Where("public_token = ? AND rating = 0", token).
		Updates(map[string]interface{}{"rating": req.Rating, "comment": req.Comment})
	if result.Error != nil {
		log.Error("Failed to record review response", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record response"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "review was already answered"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "thank you for your feedback"})
}

// RedirectShortLink resolves a short code and redirects to its target
func (h *PublicHandler) RedirectShortLink(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "code is required"})
	}
	ctx := c.Request().Context()

	tenantID, err := h.resolver.Resolve(ctx, func(db *gorm.DB) (bool, error) {
		var n int64
		if err := db.Model(&model.ShortLink{}).Where("code = ?", code).Count(&n).Error; err != nil {
			return false, err
		}
		return n > 0, nil
	})
	if err != nil {
		return resolveError(c, err)
	}

	store, err := h.router.Tenant(ctx, tenantID)
	if err != nil {
		return resolveError(c, err)
	}

	var link model.ShortLink
	if result := store.WithContext(ctx).Where("code = ?", code).First(&link); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if link.ExpiresAt != nil && link.ExpiresAt.Before(time.Now()) {
		return c.JSON(http.StatusGone, echo.Map{"error": "link expired"})
	}

	// Best-effort hit counting; a lost increment never blocks the redirect.
	if err := store.Model(&link).Update("hits", gorm.Expr("hits + 1")).Error; err != nil {
		logger.FromEcho(c).Warn("Failed to count short link hit", zap.Error(err))
	}

	return c.Redirect(http.StatusFound, link.TargetURL)
}
