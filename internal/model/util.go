package model

import (
	"crypto/rand"
	"encoding/base64"
)

// NewToken creates a secure random token string for globally-addressed
// records such as review response links.
func NewToken() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		// crypto/rand failing means the process has bigger problems
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// NewShortCode creates a short random redirect code.
func NewShortCode() string {
	b := make([]byte, 6)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
