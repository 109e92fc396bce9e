package jwtutil

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by an identity token. The embedded role and permissions are
// a hint for clients; authorization always re-derives them from storage at
// resolve time.
type Claims struct {
	Email       string   `json:"email,omitempty"`
	Role        string   `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the token subject.
func (c *Claims) UserID() string {
	return c.Subject
}
