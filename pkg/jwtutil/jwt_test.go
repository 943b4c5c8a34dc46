package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() *JWTConfig {
	return &JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1}
}

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil(testConfig())

	token, err := util.GenerateToken("user@example.com", 42, "member")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "user@example.com", claims.Email)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "member", claims.Role)
	require.Nil(t, claims.TenantID)
}

func TestTokenCarriesTenant(t *testing.T) {
	util := NewJWTUtil(testConfig())

	tenantID := "3f6f34cc-13f1-4f53-9f4e-6f1a1c2b7d01"
	token, err := util.GenerateTokenWithTenant("owner@example.com", 7, "member", &tenantID, "shop-a")
	require.NoError(t, err)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.TenantID)
	require.Equal(t, tenantID, *claims.TenantID)
	require.Equal(t, "shop-a", claims.TenantName)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	token, err := NewJWTUtil(testConfig()).GenerateToken("user@example.com", 1, "member")
	require.NoError(t, err)

	other := NewJWTUtil(&JWTConfig{SigningKey: "another-key", ExpirationHours: 1})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "test-signing-key", ExpirationHours: -1})

	token, err := util.GenerateToken("user@example.com", 1, "member")
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	util := NewJWTUtil(testConfig())
	_, err := util.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestNilConfig(t *testing.T) {
	util := NewJWTUtil(nil)
	_, err := util.GenerateToken("user@example.com", 1, "member")
	require.Error(t, err)
	_, err = util.ValidateToken("anything")
	require.Error(t, err)
}
