package services

import (
	"testing"
	"time"

	"github.com/h4ks-com/palay/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_RegisterAndAuthenticate(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.accounts.Register(RegisterInput{
		Username: "Mang_Tomas",
		Password: "palay-2024",
		Name:     "Tomas",
		Role:     models.RoleFarmer,
	})
	require.NoError(t, err)
	assert.Equal(t, "mang_tomas", user.Username)
	assert.NotEqual(t, "palay-2024", user.PasswordHash)
	assert.True(t, user.IsFarmer())

	found, err := env.accounts.Authenticate("MANG_TOMAS", "palay-2024")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = env.accounts.Authenticate("mang_tomas", "wrong-password")
	assert.Equal(t, ErrInvalidCredentials, err)

	_, err = env.accounts.Authenticate("nobody", "palay-2024")
	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestAccountService_RegisterValidation(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.accounts.Register(RegisterInput{Username: "ana", Password: "short"})
	assert.True(t, IsKind(err, KindValidation))

	_, err = env.accounts.Register(RegisterInput{Username: "ana", Password: "long-enough", Role: "admin"})
	assert.True(t, IsKind(err, KindValidation))

	user, err := env.accounts.Register(RegisterInput{Username: "ana", Password: "long-enough"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, user.Role)

	_, err = env.accounts.Register(RegisterInput{Username: "ana", Password: "long-enough"})
	assert.Equal(t, ErrUsernameTaken, err)
}

func TestAccountService_FindOrCreateHasNoPassword(t *testing.T) {
	env := setupTestEnv(t)

	user, err := env.accounts.FindOrCreate("oidc-user", "OIDC User", "oidc@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, user.Role)

	again, err := env.accounts.FindOrCreate("oidc-user", "", "")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	_, err = env.accounts.Authenticate("oidc-user", "")
	assert.Equal(t, ErrInvalidCredentials, err)

	farmer, err := env.accounts.SetRole(user.ID, models.RoleFarmer)
	require.NoError(t, err)
	assert.True(t, farmer.IsFarmer())
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	env := setupTestEnv(t)
	farmer := env.createUser(t, "farmer", models.RoleFarmer)

	tokenString, apiToken, err := env.tokens.GenerateToken("farmer", "cli", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Equal(t, "cli", apiToken.Name)

	user, err := env.tokens.ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, farmer.ID, user.ID)
	assert.Equal(t, models.RoleFarmer, user.Role)

	tokens, err := env.tokens.ListUserTokens(farmer.ID)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.NotNil(t, tokens[0].LastUsedAt)

	_, err = env.tokens.ValidateToken("not-a-jwt")
	assert.Equal(t, ErrInvalidToken, err)

	require.NoError(t, env.tokens.DeleteToken(apiToken.ID, farmer.ID))
	_, err = env.tokens.ValidateToken(tokenString)
	assert.Equal(t, ErrInvalidToken, err)

	assert.Equal(t, ErrTokenNotFound, env.tokens.DeleteToken(apiToken.ID, farmer.ID))
}

func TestTokenService_UnknownUser(t *testing.T) {
	env := setupTestEnv(t)

	_, _, err := env.tokens.GenerateToken("ghost", "", time.Hour)
	assert.Equal(t, ErrUserNotFound, err)
}

func TestTokenService_LifetimeBounds(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "farmer", models.RoleFarmer)

	_, _, err := env.tokens.GenerateToken("farmer", "cli", 0)
	assert.Equal(t, ErrTokenLifetime, err)

	_, _, err = env.tokens.GenerateToken("farmer", "cli", 366*24*time.Hour)
	assert.Equal(t, ErrTokenLifetime, err)

	_, apiToken, err := env.tokens.GenerateToken("farmer", "cli", 365*24*time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(365*24*time.Hour), apiToken.ExpiresAt, time.Minute)
}
