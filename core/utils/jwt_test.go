package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volops/core/config"
	"volops/core/constants"
)

func setTestConfig(t *testing.T, secret string) {
	t.Helper()
	config.Set(&config.Config{
		JWT: config.JWTConfig{
			Secret:      secret,
			ExpiryHours: 1,
			Issuer:      "volops-test",
		},
	})
}

func TestTokenRoundTrip(t *testing.T) {
	setTestConfig(t, "test-secret")

	userID := uuid.New()
	token, err := GenerateToken(userID, "vol@example.com", constants.ScopeTokenAccess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "vol@example.com", claims.Email)
	assert.Equal(t, constants.ScopeTokenAccess, claims.Scope)
	assert.Equal(t, "volops-test", claims.Issuer)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	setTestConfig(t, "secret-a")
	token, err := GenerateToken(uuid.New(), "vol@example.com", constants.ScopeTokenAccess)
	require.NoError(t, err)

	setTestConfig(t, "secret-b")
	_, err = ValidateAndParseToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsGarbage(t *testing.T) {
	setTestConfig(t, "test-secret")

	_, err := ValidateAndParseToken("not-a-token")
	assert.Error(t, err)
}
