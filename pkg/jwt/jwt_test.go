package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 72*time.Hour)

	token, issued, err := m.GenerateAccessToken("8d1c7f0e-5a0b-4a53-9c38-0c4f3c1d2e11", "agent@example.com", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := NewManager("test-secret", 15*time.Minute, 72*time.Hour)

	refresh, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Error(t, err)

	claims, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)
	issuedAt := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	token, _, err := m.GenerateAccessToken("user-1", "a@example.com", "admin")
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestWrongSecretIsRejected(t *testing.T) {
	issuer := NewManager("secret-a", time.Minute, time.Hour)
	verifier := NewManager("secret-b", time.Minute, time.Hour)

	token, _, err := issuer.GenerateAccessToken("user-1", "a@example.com", "admin")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	assert.Error(t, err)
}
