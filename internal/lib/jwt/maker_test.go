package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entercode/education-backend/internal/lib/errs"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
	}{
		{
			name:     "plain username",
			username: "alice",
		},
		{
			name:     "username with underscore",
			username: "ivan_petrov",
		},
		{
			name:     "username with numbers",
			username: "student123",
		},
		{
			name:     "short username",
			username: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.username, claims.Username)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_DefaultTTL(t *testing.T) {
	maker := NewJWTMaker("test_secret_key", 0)

	token, err := maker.GenerateToken("alice")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, time.Second)
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	validToken, err := maker.GenerateToken("testuser")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "expired token",
			token: createExpiredToken(t, secretKey),
		},
		{
			name:  "wrong secret key",
			token: createTokenWithWrongSecret(t),
		},
		{
			name:  "tampered token",
			token: validToken + "tampered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)

			require.Error(t, err)
			assert.Nil(t, claims)
			// все причины отказа сворачиваются в одну ошибку
			assert.True(t, errors.Is(err, errs.ErrUnauthorized))
		})
	}
}

func TestJWTMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewJWTMaker("first_secret_key", 15*time.Minute)
	maker2 := NewJWTMaker("different_secret_key", 15*time.Minute)

	token, err := maker1.GenerateToken("testuser")
	require.NoError(t, err)

	claims, err := maker2.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = maker1.ParseToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func createExpiredToken(t *testing.T, secretKey string) string {
	maker := NewJWTMaker(secretKey, -time.Hour)
	token, err := maker.GenerateToken("testuser")
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	wrongMaker := NewJWTMaker("wrong_secret_key", 15*time.Minute)
	token, err := wrongMaker.GenerateToken("testuser")
	require.NoError(t, err)
	return token
}

func TestJWTMaker_TokenExpiration(t *testing.T) {
	secretKey := "test_secret_key"
	shortTTL := 100 * time.Millisecond
	maker := NewJWTMaker(secretKey, shortTTL)

	token, err := maker.GenerateToken("testuser")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)

	time.Sleep(150 * time.Millisecond)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrUnauthorized))
}
