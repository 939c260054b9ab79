package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "dashboard-backend", time.Hour)

	token, expires, err := m.GenerateToken("owner@example.com")
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateToken_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", "dashboard-backend", time.Hour)
	token, _, err := m.GenerateToken("owner@example.com")
	require.NoError(t, err)

	_, err = NewJWTManager("other-secret", "dashboard-backend", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	_, err = NewJWTManager("test-secret", "someone-else", time.Hour).ValidateToken(token)
	assert.Error(t, err)

	expired, _, err := NewJWTManager("test-secret", "dashboard-backend", -time.Minute).GenerateToken("owner@example.com")
	require.NoError(t, err)
	_, err = m.ValidateToken(expired)
	assert.Error(t, err)
}

func TestAdminCheck(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	admin := Admin{Email: "Owner@Example.com", PasswordHash: hash}

	assert.NoError(t, admin.Check("owner@example.com", "correct horse"))
	assert.ErrorIs(t, admin.Check("owner@example.com", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, admin.Check("intruder@example.com", "correct horse"), ErrInvalidCredentials)
	assert.ErrorIs(t, Admin{}.Check("", ""), ErrInvalidCredentials)
}
