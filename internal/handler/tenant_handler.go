package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/middleware"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

// TenantHandler serves the tenant registry in the main store. Creating a
// tenant only mints the registry row; the storage artifact is provisioned
// lazily on the tenant's first data access.
type TenantHandler struct {
	router *tenantdb.Router
}

// NewTenantHandler creates the tenant handler.
func NewTenantHandler(router *tenantdb.Router) *TenantHandler {
	return &TenantHandler{router: router}
}

// CreateTenant handles tenant creation
func (h *TenantHandler) CreateTenant(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("create")

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		OwnerID     uint   `json:"owner_id"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	ownerID := req.OwnerID
	if ownerID == 0 {
		ownerID = p.UserID
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	// Begin transaction
	tx := h.router.Main().WithContext(c.Request().Context()).Begin()
	if tx.Error != nil {
		log.Error("Failed to begin transaction", zap.Error(tx.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	tenant := model.Tenant{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		Active:      true,
	}
	if result := tx.Create(&tenant); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create tenant", zap.Error(result.Error))
		return c.JSON(http.StatusConflict, echo.Map{"error": "tenant creation failed"})
	}

	userTenant := model.UserTenant{
		UserID:    ownerID,
		TenantID:  tenant.ID,
		Role:      "owner",
		IsDefault: true,
		Active:    true,
	}
	if result := tx.Create(&userTenant); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create user-tenant association", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant association failed"})
	}

	if result := tx.Model(&model.User{}).Where("id = ?", ownerID).Update("tenant_id", tenant.ID); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to update user's default tenant", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "user update failed"})
	}

	// A fresh tenant starts on the free plan until billing says otherwise.
	subscription := model.Subscription{
		TenantID:    tenant.ID,
		Plan:        "free",
		Status:      model.SubscriptionActive,
		PeriodStart: time.Now(),
		PeriodEnd:   time.Now().AddDate(0, 1, 0),
	}
	if result := tx.Create(&subscription); result.Error != nil {
		tx.Rollback()
		log.Error("Failed to create subscription", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "subscription creation failed"})
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("Failed to commit transaction", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction commit failed"})
	}

	log.Info("Tenant created",
		zap.String("id", tenant.ID),
		zap.String("name", tenant.Name),
		zap.Uint("owner_id", tenant.OwnerID))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "tenant created successfully",
		"tenant":  tenant,
	})
}

// ListTenants returns the full tenant registry
func (h *TenantHandler) ListTenants(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("list")

	var tenants []model.Tenant
	if result := h.router.Main().WithContext(c.Request().Context()).Order("created_at").Find(&tenants); result.Error != nil {
		log.Error("Failed to list tenants", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"tenants": tenants})
}

// CurrentTenant returns the registry row of the principal's tenant
func (h *TenantHandler) CurrentTenant(c echo.Context) error {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	if p.TenantID == nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "user is not associated with a tenant"})
	}

	var tenant model.Tenant
	result := h.router.Main().WithContext(c.Request().Context()).Where("id = ?", *p.TenantID).First(&tenant)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"tenant": tenant})
}
