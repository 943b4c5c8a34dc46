package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ksiloret44-afk/fixtector-sub002/internal/model"
	"github.com/ksiloret44-afk/fixtector-sub002/internal/tenantdb"
	"github.com/ksiloret44-afk/fixtector-sub002/pkg/jwtutil"
)

func newAuthContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestJWTAuthMiddlewareSetsPrincipal(t *testing.T) {
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	tenantID := "tenant-1"
	token, err := util.GenerateTokenWithTenant("owner@example.com", 7, model.RoleMember, &tenantID, "shop-a")
	require.NoError(t, err)

	c, rec := newAuthContext(t, "Bearer "+token)

	var principal tenantdb.Principal
	handler := JWTAuthMiddleware(util)(func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		require.True(t, ok)
		principal = p
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 7, principal.UserID)
	require.Equal(t, model.RoleMember, principal.Role)
	require.NotNil(t, principal.TenantID)
	require.Equal(t, tenantID, *principal.TenantID)
}

func TestJWTAuthMiddlewareRejects(t *testing.T) {
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	handler := JWTAuthMiddleware(util)(okHandler)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "token-without-scheme"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"invalid token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newAuthContext(t, tc.header)
			require.NoError(t, handler(c))
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAdminRequired(t *testing.T) {
	handler := AdminRequired()(okHandler)

	t.Run("admin passes", func(t *testing.T) {
		c, rec := newAuthContext(t, "")
		c.Set("principal", tenantdb.Principal{UserID: 1, Role: model.RoleAdmin})
		require.NoError(t, handler(c))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		c, rec := newAuthContext(t, "")
		c.Set("principal", tenantdb.Principal{UserID: 2, Role: model.RoleMember})
		require.NoError(t, handler(c))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		c, rec := newAuthContext(t, "")
		require.NoError(t, handler(c))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
