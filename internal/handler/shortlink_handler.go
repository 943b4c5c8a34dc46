package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// ShortLinkHandler serves short redirect links inside the principal's
// tenant. Redirect resolution for anonymous visitors lives in PublicHandler.
type ShortLinkHandler struct {
	router *tenantdb.Router
}

// NewShortLinkHandler creates the short link handler.
func NewShortLinkHandler(router *tenantdb.Router) *ShortLinkHandler {
	return &ShortLinkHandler{router: router}
}

// CreateShortLink mints a redirect code for a target URL
func (h *ShortLinkHandler) CreateShortLink(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		TargetURL string     `json:"target_url"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	parsed, err := url.Parse(req.TargetURL)
	if err != nil || !parsed.IsAbs() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "target_url must be an absolute URL"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	link := model.ShortLink{
		Code:      model.NewShortCode(),
		TargetURL: req.TargetURL,
		ExpiresAt: req.ExpiresAt,
	}
	if result := store.WithContext(c.Request().Context()).Create(&link); result.Error != nil {
		log.Error("Failed to create short link", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "short link creation failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"short_link": link})
}

// ListShortLinks lists the tenant's redirect codes
func (h *ShortLinkHandler) ListShortLinks(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	var links []model.ShortLink
	if result := store.WithContext(c.Request().Context()).Order("created_at DESC").Find(&links); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list short links", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"short_links": links})
}
