package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "ana@example.com", user.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, TokenTypeAccess, claims["type"])
}

func TestValidateRefreshToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, 24*time.Hour)

	refresh, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	t.Run("rejects access token", func(t *testing.T) {
		access, _, err := svc.GenerateAccessToken("user-1", "ana@example.com", user.RoleEmployee)
		require.NoError(t, err)
		_, err = svc.ValidateRefreshToken(access)
		assert.Error(t, err)
	})

	t.Run("rejects token signed with another key", func(t *testing.T) {
		other := NewJWTService("another-secret", time.Hour, time.Hour)
		foreign, _, err := other.GenerateRefreshToken("user-1")
		require.NoError(t, err)
		_, err = svc.ValidateRefreshToken(foreign)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := NewJWTService(testSecret, time.Hour, -time.Hour)
		old, _, err := expired.GenerateRefreshToken("user-1")
		require.NoError(t, err)
		_, err = svc.ValidateRefreshToken(old)
		assert.Error(t, err)
	})
}

func TestRevokeToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, time.Hour)
	assert.False(t, svc.IsTokenRevoked("abc"))
	svc.RevokeToken("abc")
	assert.True(t, svc.IsTokenRevoked("abc"))
}

func TestPurgeRevoked(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, time.Hour)
	svc.RevokeToken("abc")

	assert.Zero(t, svc.PurgeRevoked(time.Now()))
	assert.True(t, svc.IsTokenRevoked("abc"))

	assert.Equal(t, 1, svc.PurgeRevoked(time.Now().Add(2*time.Hour)))
	assert.False(t, svc.IsTokenRevoked("abc"))
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour, time.Hour)
	cookie := svc.RefreshTokenCookie("tok", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.True(t, cookie.HttpOnly)

	cleared := svc.ClearRefreshTokenCookie()
	assert.Equal(t, -1, cleared.MaxAge)
}
