package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345"

func TestHashPassword(t *testing.T) {
	t.Run("Successfully hash password", func(t *testing.T) {
		password := "mySecurePassword123"
		hashed, err := HashPassword(password)

		assert.NoError(t, err)
		assert.NotEmpty(t, hashed)
		assert.NotEqual(t, password, hashed)
	})

	t.Run("Different hashes for same password", func(t *testing.T) {
		password := "samePassword"
		hash1, _ := HashPassword(password)
		hash2, _ := HashPassword(password)

		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPassword(t *testing.T) {
	password := "correctPassword"
	hashed, _ := HashPassword(password)

	t.Run("Correct password", func(t *testing.T) {
		assert.True(t, CheckPassword(hashed, password))
	})

	t.Run("Incorrect password", func(t *testing.T) {
		assert.False(t, CheckPassword(hashed, "wrongPassword"))
	})

	t.Run("Empty password", func(t *testing.T) {
		assert.False(t, CheckPassword(hashed, ""))
	})
}

func TestGenerateAccessToken(t *testing.T) {
	t.Run("Successfully generate access token", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "member@example.com", "member", testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Fail with empty secret", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "member@example.com", "member", "")

		assert.Error(t, err)
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Empty(t, token)
	})

	t.Run("Token contains correct claims", func(t *testing.T) {
		memberID := 42
		email := "test@example.com"
		role := "admin"

		token, err := GenerateAccessToken(memberID, email, role, testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, memberID, claims.MemberID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, role, claims.Role)
		assert.Equal(t, "access", claims.TokenType)
	})
}

func TestGenerateRefreshToken(t *testing.T) {
	t.Run("Successfully generate refresh token", func(t *testing.T) {
		token, err := GenerateRefreshToken(1, "member@example.com", "member", testSecret)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})

	t.Run("Refresh token has longer expiration", func(t *testing.T) {
		token, err := GenerateRefreshToken(1, "member@example.com", "member", testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, testSecret)
		require.NoError(t, err)

		assert.Equal(t, "refresh", claims.TokenType)

		expectedExpiry := time.Now().Add(RefreshTokenTTL)
		actualExpiry := claims.ExpiresAt.Time

		diff := actualExpiry.Sub(expectedExpiry).Abs()
		assert.Less(t, diff, 2*time.Second)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("Reject token signed with different secret", func(t *testing.T) {
		token, err := GenerateAccessToken(1, "member@example.com", "member", testSecret)
		require.NoError(t, err)

		claims, err := ValidateToken(token, "another-secret")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Reject garbage token", func(t *testing.T) {
		claims, err := ValidateToken("not.a.token", testSecret)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Reject empty secret", func(t *testing.T) {
		claims, err := ValidateToken("whatever", "")
		assert.Equal(t, ErrEmptyJWTSecret, err)
		assert.Nil(t, claims)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	t.Run("Successfully refresh access token", func(t *testing.T) {
		refreshToken, err := GenerateRefreshToken(7, "member@example.com", "member", testSecret)
		require.NoError(t, err)

		newAccess, claims, err := RefreshAccessToken(refreshToken, testSecret, testSecret)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.Equal(t, 7, claims.MemberID)

		newClaims, err := ValidateToken(newAccess, testSecret)
		require.NoError(t, err)
		assert.Equal(t, "access", newClaims.TokenType)
	})

	t.Run("Reject access token as refresh token", func(t *testing.T) {
		accessToken, err := GenerateAccessToken(7, "member@example.com", "member", testSecret)
		require.NoError(t, err)

		_, _, err = RefreshAccessToken(accessToken, testSecret, testSecret)
		assert.Equal(t, ErrInvalidTokenType, err)
	})
}
