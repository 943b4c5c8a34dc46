package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/jwtutil"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/logger"
	"github.com/ksiloret44-afk/fixtector-sub002/prometheus"
)

const principalKey = "principal"

// JWTAuthMiddleware creates a middleware that validates JWT tokens and puts
// the resulting principal in the request context.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(principalKey, tenantdb.Principal{
				UserID:   claims.UserID,
				Role:     claims.Role,
				TenantID: claims.TenantID,
			})
			c.Set("email", claims.Email)

			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated principal stored by
// JWTAuthMiddleware. The second return is false on unauthenticated routes.
func PrincipalFrom(c echo.Context) (tenantdb.Principal, bool) {
	p, ok := c.Get(principalKey).(tenantdb.Principal)
	return p, ok
}

// AdminRequired rejects requests whose principal is not a platform
// administrator. Must run after JWTAuthMiddleware.
func AdminRequired() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			if !tenantdb.IsAdmin(p) {
				logger.FromEcho(c).Warn("Non-admin attempted admin route",
					zap.Uint("user_id", p.UserID), zap.String("role", p.Role))
				return c.JSON(http.StatusForbidden, echo.Map{"error": "administrator role required"})
			}
			return next(c)
		}
	}
}
