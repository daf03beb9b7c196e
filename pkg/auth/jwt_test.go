package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("user-1", "+998901234567")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "+998901234567", claims.Phone)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	other := NewJWTManager("other-secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("user-1", "+998901234567")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := m.GenerateToken("user-1", "+998901234567")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	_, err := m.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}
