package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *HMACService {
	return NewHMACService("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour)
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestService()
	id := uuid.New()

	tok, err := svc.GenerateAccessToken(id, "ada")
	require.NoError(t, err)

	c, err := svc.ValidateAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, "ada", c.Username)
	assert.Equal(t, TokenTypeAccess, c.TokenType)
}

func TestRefreshTokenRejectedAsAccess(t *testing.T) {
	svc := newTestService()
	tok, err := svc.GenerateRefreshToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	c, err := svc.ValidateRefreshToken(tok)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, c.TokenType)
}

func TestAccessToken_Expired(t *testing.T) {
	now := time.Now()
	svc := newTestService().WithClock(func() time.Time { return now })

	tok, err := svc.GenerateAccessToken(uuid.New(), "ada")
	require.NoError(t, err)

	svc.WithClock(func() time.Time { return now.Add(16 * time.Minute) })
	_, err = svc.ValidateAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessToken_WrongSecret(t *testing.T) {
	tok, err := newTestService().GenerateAccessToken(uuid.New(), "ada")
	require.NoError(t, err)

	other := NewHMACService("different", "refresh-secret", time.Minute, time.Hour)
	_, err = other.ValidateAccessToken(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidate_Garbage(t *testing.T) {
	_, err := newTestService().ValidateAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = newTestService().ValidateAccessToken("")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGenerate_MissingSecret(t *testing.T) {
	svc := NewHMACService("", "", time.Minute, time.Minute)
	_, err := svc.GenerateAccessToken(uuid.New(), "ada")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
