package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/coachlink/errors"
	"github.com/johnquangdev/coachlink/pkg/jwt"
)

func runAuth(t *testing.T, m *jwt.Manager, header string, scopes ...string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/meetings", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := EchoAdminAuth(m, scopes...)(func(c echo.Context) error {
		claims, ok := GetClaims(c)
		require.True(t, ok)
		return c.String(http.StatusOK, claims.Operator)
	})
	return rec, h(c)
}

func appErrorOf(t *testing.T, err error) errors.AppError {
	t.Helper()
	var appErr errors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func TestEchoAdminAuth(t *testing.T) {
	m := jwt.NewManager("secret", time.Hour)

	t.Run("missing token", func(t *testing.T) {
		_, err := runAuth(t, m, "")
		appErr := appErrorOf(t, err)
		assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
		assert.Equal(t, errors.ErrorCode_UNAUTHENTICATED, appErr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := runAuth(t, m, "Bearer nope")
		appErr := appErrorOf(t, err)
		assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
		assert.Equal(t, errors.ErrorCode_AUTH_INVALID_TOKEN, appErr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwt.NewManager("secret", -time.Minute)
		token, err := expired.GenerateToken("ops", jwt.ScopeMeetingsRead)
		require.NoError(t, err)
		_, err = runAuth(t, m, "Bearer "+token, jwt.ScopeMeetingsRead)
		appErr := appErrorOf(t, err)
		assert.Equal(t, http.StatusUnauthorized, appErr.HTTPCode)
		assert.Equal(t, errors.ErrorCode_AUTH_TOKEN_EXPIRED, appErr.Code)
	})

	t.Run("missing scope", func(t *testing.T) {
		token, err := m.GenerateToken("ops")
		require.NoError(t, err)
		_, err = runAuth(t, m, "Bearer "+token, jwt.ScopeMeetingsRead)
		appErr := appErrorOf(t, err)
		assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)
		assert.Equal(t, errors.ErrorCode_AUTH_PERMISSION_DENIED, appErr.Code)
		assert.Equal(t, jwt.ScopeMeetingsRead, appErr.Details["scope"])
	})

	t.Run("valid", func(t *testing.T) {
		token, err := m.GenerateToken("ops", jwt.ScopeMeetingsRead)
		require.NoError(t, err)
		rec, err := runAuth(t, m, "Bearer "+token, jwt.ScopeMeetingsRead)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ops", rec.Body.String())
	})
}
