package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// AdminHandler serves platform-wide administrative operations: full backup,
// full data wipe and subscription management. All routes require the
// administrator role; the wipe additionally demands the confirmation literal
// and an elevated credential.
type AdminHandler struct {
	router *tenantdb.Router
	bulk   *tenantdb.BulkOps
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(router *tenantdb.Router, bulk *tenantdb.BulkOps) *AdminHandler {
	return &AdminHandler{router: router, bulk: bulk}
}

// Backup streams a compressed archive of the main store and every tenant
// artifact
func (h *AdminHandler) Backup(c echo.Context) error {
	log := logger.FromEcho(c)

	filename := fmt.Sprintf("fixtector-backup-%s.tar.gz", time.Now().UTC().Format("20060102T150405Z"))
	c.Response().Header().Set(echo.HeaderContentType, "application/gzip")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Response().WriteHeader(http.StatusOK)

	result, err := h.bulk.BackupAll(c.Request().Context(), c.Response())
	if err != nil {
		// Headers are already on the wire; all we can do is log and cut the
		// stream short.
		log.Error("Backup failed mid-stream", zap.Error(err))
		return err
	}

	log.Info("Backup streamed",
		zap.Int("tenants", result.Tenants),
		zap.Strings("skipped", result.Skipped))
	return nil
}

// Wipe deletes all tenant domain data after confirmation and credential
// checks
func (h *AdminHandler) Wipe(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Confirmation string `json:"confirmation"`
		Credential   string `json:"credential"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	result, err := h.bulk.WipeAllTenantData(c.Request().Context(), req.Confirmation, req.Credential)
	if err != nil {
		switch {
		case errors.Is(err, tenantdb.ErrConfirmationMismatch):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("confirmation must be the literal %q", tenantdb.WipeConfirmation)})
		case errors.Is(err, tenantdb.ErrCredentialRejected):
			log.Warn("Wipe attempted with invalid elevated credential")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "elevated credential rejected"})
		default:
			log.Error("Wipe failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "wipe failed"})
		}
	}

	log.Info("Tenant data wipe complete",
		zap.Any("deleted", result.Deleted),
		zap.Int("failed_tenants", len(result.Failed)))

	status := http.StatusOK
	if len(result.Failed) > 0 {
		// Partial success: some tenants could not be processed.
		status = http.StatusMultiStatus
	}
	return c.JSON(status, result)
}

// ListSubscriptions returns the billing state of every tenant
func (h *AdminHandler) ListSubscriptions(c echo.Context) error {
	var subscriptions []model.Subscription
	result := h.router.Main().WithContext(c.Request().Context()).Order("tenant_id").Find(&subscriptions)
	if result.Error != nil {
		logger.FromEcho(c).Error("Failed to list subscriptions", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"subscriptions": subscriptions})
}

// UpdateSubscription sets a tenant's plan and status
func (h *AdminHandler) UpdateSubscription(c echo.Context) error {
	log := logger.FromEcho(c)

	tenantID := c.Param("tenant_id")
	if tenantID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_id is required"})
	}

	var req struct {
		Plan      string     `json:"plan"`
		Status    string     `json:"status"`
		PeriodEnd *time.Time `json:"period_end,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	switch req.Status {
	case model.SubscriptionActive, model.SubscriptionPastDue, model.SubscriptionCanceled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown subscription status"})
	}

	updates := map[string]interface{}{"plan": req.Plan, "status": req.Status}
	if req.PeriodEnd != nil {
		updates["period_end"] = *req.PeriodEnd
	}

	result := h.router.Main().WithContext(c.Request().Context()).
		Model(&model.Subscription{}).
		Where("tenant_id = ?", tenantID).
		Updates(updates)
	if result.Error != nil {
		log.Error("Failed to update subscription", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscription update failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "subscription not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "subscription updated"})
}
