package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the subset of Supabase access-token claims the server reads.
// Tokens signed with the local HS256 secret use the same shape.
type Claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"` // "authenticated" or "anon"
	SessionID   string `json:"session_id,omitempty"`
	IsAnonymous bool   `json:"is_anonymous,omitempty"`
}

// RoleAuthenticated is the only role allowed to use the API.
const RoleAuthenticated = "authenticated"

// GetUserID returns the subject claim.
func (c *Claims) GetUserID() string {
	return c.Subject
}
