package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// RepairHandler serves repair jobs against the principal's tenant store.
type RepairHandler struct {
	router *tenantdb.Router
}

// NewRepairHandler creates the repair handler.
func NewRepairHandler(router *tenantdb.Router) *RepairHandler {
	return &RepairHandler{router: router}
}

// CreateRepair opens a new repair job for a customer
func (h *RepairHandler) CreateRepair(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		CustomerID   uint   `json:"customer_id"`
		Title        string `json:"title"`
		Description  string `json:"description"`
		DeviceType   string `json:"device_type"`
		SerialNumber string `json:"serial_number"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.CustomerID == 0 || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and title are required"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	var customer model.Customer
	if result := store.WithContext(ctx).First(&customer, req.CustomerID); result.Error != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer not found"})
	}

	repair := model.Repair{
		CustomerID:   req.CustomerID,
		Title:        req.Title,
		Description:  req.Description,
		DeviceType:   req.DeviceType,
		SerialNumber: req.SerialNumber,
		Status:       model.RepairReceived,
	}
	if result := store.WithContext(ctx).Create(&repair); result.Error != nil {
		log.Error("Failed to create repair", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "repair creation failed"})
	}

	log.Info("Repair created", zap.Uint("id", repair.ID), zap.Uint("customer_id", repair.CustomerID))
	return c.JSON(http.StatusCreated, echo.Map{"repair": repair})
}

// ListRepairs lists repairs, optionally filtered by status or customer
func (h *RepairHandler) ListRepairs(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	query := store.WithContext(c.Request().Context()).Preload("Parts").Order("created_at DESC")
	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.QueryParam("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var repairs []model.Repair
	if result := query.Find(&repairs); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list repairs", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"repairs": repairs})
}

// GetRepair returns one repair with its parts
func (h *RepairHandler) GetRepair(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	var repair model.Repair
	result := store.WithContext(c.Request().Context()).Preload("Parts").Preload("Customer").First(&repair, id)
	if result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "repair not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"repair": repair})
}

// UpdateRepairStatus moves a repair through its lifecycle
func (h *RepairHandler) UpdateRepairStatus(c echo.Context) error {
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
	if !model.ValidRepairStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown repair status"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	result := store.WithContext(c.Request().Context()).Model(&model.Repair{}).Where("id = ?", id).Update("status", req.Status)
	if result.Error != nil {
		log.Error("Failed to update repair status", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "status update failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "repair not found"})
	}

	log.Info("Repair status updated", zap.Uint("id", id), zap.String("status", req.Status))
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated", "status": req.Status})
}

// AttachPart records a part consumed by a repair and decrements stock
func (h *RepairHandler) AttachPart(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	var req struct {
		PartID   uint `json:"part_id"`
		Quantity int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.PartID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "part_id is required"})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}
	ctx := c.Request().Context()

	var attached model.RepairPart
	err := store.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var repair model.Repair
		if result := tx.First(&repair, id); result.Error != nil {
			return result.Error
		}

		var part model.Part
		if result := tx.First(&part, req.PartID); result.Error != nil {
			return result.Error
		}

		attached = model.RepairPart{
			RepairID:  repair.ID,
			PartID:    part.ID,
			Quantity:  req.Quantity,
			UnitPrice: part.UnitPrice,
		}
		if result := tx.Create(&attached); result.Error != nil {
			return result.Error
		}

		return tx.Model(&part).Update("stock", gorm.Expr("stock - ?", req.Quantity)).Error
	})
	if err != nil {
		log.Error("Failed to attach part to repair", zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": "could not attach part"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"repair_part": attached})
}
