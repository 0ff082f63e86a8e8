package middleware

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/coachlink/errors"
	"github.com/johnquangdev/coachlink/pkg/jwt"
)

const (
	// ClaimsContextKey is the echo context key of the validated operator claims
	ClaimsContextKey = "operator_claims"
)

// TokenValidator validates operator bearer tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// EchoAdminAuth returns an Echo middleware that validates the operator JWT
// and requires every given scope. Rejections are errors.AppError values.
func EchoAdminAuth(validator TokenValidator, scopes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c.Request())
			if token == "" {
				return errors.ErrUnauthenticated()
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return errors.ErrTokenExpired()
				}
				return errors.ErrInvalidToken()
			}

			for _, scope := range scopes {
				if !claims.HasScope(scope) {
					return errors.ErrPermissionDenied().WithDetail("scope", scope)
				}
			}

			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}

// GetClaims retrieves the operator claims set by EchoAdminAuth
func GetClaims(c echo.Context) (*jwt.Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*jwt.Claims)
	return claims, ok
}

func extractToken(r *http.Request) string {
	// Expected format: "Bearer <token>"
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}
