package model

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewToken(t *testing.T) {
	a := NewToken()
	b := NewToken()

	require.Len(t, a, 43) // 32 bytes, base64 without padding
	require.NotEqual(t, a, b)

	// Tokens travel in URLs verbatim.
	require.Equal(t, a, url.PathEscape(a))
}

func TestNewShortCode(t *testing.T) {
	code := NewShortCode()
	require.Len(t, code, 8)
	require.Equal(t, code, url.PathEscape(code))
	require.NotEqual(t, code, NewShortCode())
}
