package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateToken("ops@coachlink.dev", ScopeMeetingsRead)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@coachlink.dev", claims.Operator)
	assert.True(t, claims.HasScope(ScopeMeetingsRead))
	assert.False(t, claims.HasScope("meetings:write"))
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret", time.Hour).GenerateToken("ops")
	require.NoError(t, err)

	_, err = NewManager("other", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpired(t *testing.T) {
	m := NewManager("secret", -time.Minute)
	token, err := m.GenerateToken("ops")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
