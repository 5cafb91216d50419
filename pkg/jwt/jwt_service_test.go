package jwt

import (
	"testing"
	"time"

	"foodgram/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateTokenUser("0b7c6a54-4f7e-4a57-bf1f-7c8f7d1c2a3b", domain.RoleAdmin)
	require.NoError(t, err)

	id, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0b7c6a54-4f7e-4a57-bf1f-7c8f7d1c2a3b", id)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute)
	token, err := svc.GenerateTokenUser("someone", domain.RoleUser)
	require.NoError(t, err)

	_, _, err = svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestForeignToken(t *testing.T) {
	token, err := NewJWTService("other-secret", time.Hour).GenerateTokenUser("someone", domain.RoleUser)
	require.NoError(t, err)

	_, _, err = NewJWTService("test-secret", time.Hour).GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, _, err = NewJWTService("test-secret", time.Hour).GetUserIDByToken("garbage")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
