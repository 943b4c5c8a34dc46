package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/jwtutil"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

// AuthHandler serves registration and login against the main store.
type AuthHandler struct {
	router *tenantdb.Router
	jwt    *jwtutil.JWTUtil
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(router *tenantdb.Router, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{router: router, jwt: jwt}
}

// Register creates a new user account
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Email == "" || len(req.Password) < 8 {
		prometheus.RecordAuthError("invalid_registration")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and a password of at least 8 characters are required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to hash password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "registration failed"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	user := model.User{
		Email:    req.Email,
		Password: string(hashed),
		Role:     model.RoleMember,
	}
	if result := h.router.Main().WithContext(c.Request().Context()).Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		prometheus.RecordAuthError("registration_failed")
		return c.JSON(http.StatusConflict, echo.Map{"error": "email is already registered"})
	}

	log.Info("User registered", zap.String("email", user.Email), zap.Uint("id", user.ID))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registration successful",
		"user": echo.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login verifies credentials and issues a JWT carrying the user's tenant
// context, when one is set.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	result := h.router.Main().WithContext(c.Request().Context()).Where("email = ?", req.Email).First(&user)
	if result.Error != nil {
		log.Warn("Login for unknown user", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	var tenantName string
	if user.TenantID != nil {
		var tenant model.Tenant
		if result := h.router.Main().Select("name").Where("id = ?", *user.TenantID).First(&tenant); result.Error == nil {
			tenantName = tenant.Name
		}
	}

	token, err := h.jwt.GenerateTokenWithTenant(user.Email, user.ID, user.Role, user.TenantID, tenantName)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("User logged in",
		zap.String("email", user.Email),
		zap.String("role", user.Role))

	response := echo.Map{
		"token": token,
		"user": echo.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	}
	if user.TenantID != nil {
		response["tenant"] = echo.Map{
			"id":   *user.TenantID,
			"name": tenantName,
		}
	}

	return c.JSON(http.StatusOK, response)
}
