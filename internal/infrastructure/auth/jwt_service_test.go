package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/authsvc/domain"
	"github.com/you/authsvc/internal/infrastructure/clock"
)

func newJWTFixture() (domain.TokenService, *clock.Fixed) {
	clk := &clock.Fixed{Current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewJWTService("test-secret-key-for-tests-only", "authsvc", 15*time.Minute, clk), clk
}

func TestJWTServiceImpl_GenerateAndValidate(t *testing.T) {
	svc, clk := newJWTFixture()

	token, err := svc.GenerateAccessToken("user-1", "session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, clk.Current.Unix(), claims.IssuedAt)
	assert.Equal(t, clk.Current.Add(15*time.Minute).Unix(), claims.ExpiresAt)
}

func TestJWTServiceImpl_ValidateAccessToken_Expired(t *testing.T) {
	svc, clk := newJWTFixture()

	token, err := svc.GenerateAccessToken("user-1", "session-1")
	require.NoError(t, err)

	clk.Advance(16 * time.Minute)
	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTServiceImpl_ValidateAccessToken_WrongKey(t *testing.T) {
	svc, clk := newJWTFixture()
	other := NewJWTService("a-different-secret-key", "authsvc", 15*time.Minute, clk)

	token, err := other.GenerateAccessToken("user-1", "session-1")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTServiceImpl_ValidateAccessToken_Garbage(t *testing.T) {
	svc, _ := newJWTFixture()

	_, err := svc.ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	_, err = svc.ValidateAccessToken("")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestJWTServiceImpl_TokensCarryUniqueIDs(t *testing.T) {
	svc, _ := newJWTFixture()

	first, err := svc.GenerateAccessToken("user-1", "session-1")
	require.NoError(t, err)
	second, err := svc.GenerateAccessToken("user-1", "session-1")
	require.NoError(t, err)

	// Same claims, distinct jti
	assert.NotEqual(t, first, second)
}

func TestRandomHex(t *testing.T) {
	first, err := randomHex(16)
	require.NoError(t, err)
	assert.Len(t, first, 32)

	second, err := randomHex(16)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestJWTServiceImpl_GenerateOpaqueToken(t *testing.T) {
	svc, _ := newJWTFixture()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := svc.GenerateOpaqueToken()
		require.NoError(t, err)
		assert.Len(t, token, 64)
		assert.False(t, seen[token], "opaque tokens must not repeat")
		seen[token] = true
	}
}
