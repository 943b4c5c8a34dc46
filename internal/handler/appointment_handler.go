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

// AppointmentHandler serves appointments against the principal's tenant store.
type AppointmentHandler struct {
	router *tenantdb.Router
}

// NewAppointmentHandler creates the appointment handler.
func NewAppointmentHandler(router *tenantdb.Router) *AppointmentHandler {
	return &AppointmentHandler{router: router}
}

// CreateAppointment schedules a visit
func (h *AppointmentHandler) CreateAppointment(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		CustomerID  uint      `json:"customer_id"`
		RepairID    *uint     `json:"repair_id,omitempty"`
		ScheduledAt time.Time `json:"scheduled_at"`
		DurationMin int       `json:"duration_min"`
		Notes       string    `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.CustomerID == 0 || req.ScheduledAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "customer_id and scheduled_at are required"})
	}
	if req.DurationMin <= 0 {
		req.DurationMin = 30
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	appointment := model.Appointment{
		CustomerID:  req.CustomerID,
		RepairID:    req.RepairID,
		ScheduledAt: req.ScheduledAt,
		DurationMin: req.DurationMin,
		Status:      model.AppointmentScheduled,
		Notes:       req.Notes,
	}
	if result := store.WithContext(c.Request().Context()).Create(&appointment); result.Error != nil {
		log.Error("Failed to create appointment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "appointment creation failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"appointment": appointment})
}

// ListAppointments lists upcoming appointments
func (h *AppointmentHandler) ListAppointments(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	query := store.WithContext(c.Request().Context()).Order("scheduled_at")
	if from := c.QueryParam("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			query = query.Where("scheduled_at >= ?", t)
		}
	}

	var appointments []model.Appointment
	if result := query.Find(&appointments); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list appointments", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"appointments": appointments})
}

// CancelAppointment cancels a scheduled appointment
func (h *AppointmentHandler) CancelAppointment(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	result := store.WithContext(c.Request().Context()).
		Model(&model.Appointment{}).
		Where("id = ? AND status = ?", id, model.AppointmentScheduled).
		Update("status", model.AppointmentCanceled)
	if result.Error != nil {
		logger.FromEcho(c).Error("Failed to cancel appointment", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "appointment update failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "appointment is not scheduled or does not exist"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "appointment canceled"})
}
