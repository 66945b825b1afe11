package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("PICKUP_AUTO_CONFIRM_DAYS", "")
	t.Setenv("TEST_MODE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "10", cfg.Marketplace.LowStockThreshold.String())
	assert.Equal(t, 30, cfg.Marketplace.PickupAutoConfirmDays)
	assert.False(t, cfg.TestMode)
	assert.False(t, cfg.Logto.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOW_STOCK_THRESHOLD", "25.5")
	t.Setenv("PICKUP_AUTO_CONFIRM_DAYS", "7")
	t.Setenv("TEST_MODE", "true")
	t.Setenv("LOGTO_ENDPOINT", "https://auth.example.com")
	t.Setenv("LOGTO_APP_ID", "palay")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "25.5", cfg.Marketplace.LowStockThreshold.String())
	assert.Equal(t, 7, cfg.Marketplace.PickupAutoConfirmDays)
	assert.True(t, cfg.TestMode)
	assert.True(t, cfg.Logto.Enabled())
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "lots")

	_, err := Load()
	assert.Error(t, err)
}
