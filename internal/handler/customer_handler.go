package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
)

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// CustomerHandler serves customer CRUD against the principal's tenant store.
type CustomerHandler struct {
	router *tenantdb.Router
}

// NewCustomerHandler creates the customer handler.
func NewCustomerHandler(router *tenantdb.Router) *CustomerHandler {
	return &CustomerHandler{router: router}
}

// CreateCustomer creates a new customer in the current tenant
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	customer := model.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if result := store.WithContext(c.Request().Context()).Create(&customer); result.Error != nil {
		log.Error("Failed to create customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer creation failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"customer": customer})
}

// ListCustomers lists the current tenant's customers
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	query := store.WithContext(c.Request().Context()).Order("name")
	if search := c.QueryParam("q"); search != "" {
		query = query.Where("name LIKE ? OR email LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var customers []model.Customer
	if result := query.Find(&customers); result.Error != nil {
		logger.FromEcho(c).Error("Failed to list customers", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	return c.JSON(http.StatusOK, echo.Map{"customers": customers})
}

// GetCustomer returns one customer by id
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	var customer model.Customer
	if result := store.WithContext(c.Request().Context()).First(&customer, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"customer": customer})
}

// UpdateCustomer updates a customer's contact details
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	var customer model.Customer
	if result := store.WithContext(c.Request().Context()).First(&customer, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.Notes = req.Notes

	if result := store.Save(&customer); result.Error != nil {
		log.Error("Failed to update customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"customer": customer})
}

// DeleteCustomer soft deletes a customer
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return nil
	}
	store, ok := tenantStore(c, h.router)
	if !ok {
		return nil
	}

	result := store.WithContext(c.Request().Context()).Delete(&model.Customer{}, id)
	if result.Error != nil {
		logger.FromEcho(c).Error("Failed to delete customer", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "customer deletion failed"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "customer not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "customer deleted"})
}
