package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/middleware"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// tenantStore resolves the current principal's tenant store. On failure it
// writes the JSON error response itself and returns ok=false.
func tenantStore(c echo.Context, router *tenantdb.Router) (*gorm.DB, bool) {
	log := logger.FromEcho(c)

	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		return nil, false
	}

	store, err := router.ForPrincipal(c.Request().Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, tenantdb.ErrNotAssociated):
			c.JSON(http.StatusForbidden, echo.Map{"error": "user is not associated with a tenant"})
		case errors.Is(err, tenantdb.ErrTenantNotFound):
			log.Error("Principal references unknown tenant", zap.Uint("user_id", p.UserID))
			c.JSON(http.StatusForbidden, echo.Map{"error": "tenant not found"})
		default:
			log.Error("Failed to resolve tenant store", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "tenant store unavailable"})
		}
		return nil, false
	}

	return store, true
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint, bool) {
	var id uint
	if err := echo.PathParamsBinder(c).Uint(name, &id).BindError(); err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
