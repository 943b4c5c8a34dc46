package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// PartHandler serves the parts inventory of the principal's tenant.
type PartHandler struct {
	router *tenantdb.Router
}

// NewPartHandler creates the part handler.
func NewPartHandler(router *tenantdb.Router) *PartHandler {
	return &PartHandler{router: router}
}

// CreatePart adds a part to the inventory
func (h *PartHandler) CreatePart(c echo.Context) error {
	var req struct {
		Name      string  `json:"name"`
		SKU       string  `json:"sku"`
		Stock     int     `json:"stock"`
		UnitPrice float64 `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.SKU == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and sku are required"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	part := model.Part{
		Name:      req.Name,
		SKU:       req.SKU,
		Stock:     req.Stock,
		UnitPrice: req.UnitPrice,
	}
	if result := store.WithContext(c.Request().Context()).Create(&part); result.Error != nil {
		logger.FromEcho(c).Error("Failed to create part", zap.Error(result.Error))
		return c.JSON(http.StatusConflict, echo.Map{"error": "part with this sku already exists"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"part": part})
}

// ListParts lists the inventory
func (h *PartHandler) ListParts(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	var parts []model.Part
	if result := store.WithContext(c.Request().Context()).Order("name").Find(&parts); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list parts", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"parts": parts})
}

// UpdatePart updates stock and pricing
func (h *PartHandler) UpdatePart(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	var req struct {
		Name      string  `json:"name"`
		Stock     int     `json:"stock"`
		UnitPrice float64 `json:"unit_price"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	var part model.Part
	if result := store.WithContext(c.Request().Context()).First(&part, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "part not found"})
	}

	if req.Name != "" {
		part.Name = req.Name
	}
	part.Stock = req.Stock
	part.UnitPrice = req.UnitPrice

	if result := store.Save(&part); result.Error != nil {
		logger.FromEcho(c).Error("Failed to update part", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "part update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"part": part})
}
