package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Scope values carried by admin tokens
const (
	ScopeMeetingsRead = "meetings:read"
)

// Claims represents JWT custom claims of an operator token
type Claims struct {
	Operator string   `json:"operator"`
	Scopes   []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope
func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
