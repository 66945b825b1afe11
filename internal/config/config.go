package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string
	GinMode     string
	Database    DatabaseConfig
	Logto       LogtoConfig
	JWT         JWTConfig
	Session     SessionConfig
	Marketplace MarketplaceConfig
	TestMode    bool
}

type DatabaseConfig struct {
	URL string
}

type LogtoConfig struct {
	Endpoint      string
	AppID         string
	AppSecret     string
	RedirectURI   string
	PostLogoutURI string
}

// Enabled reports whether OIDC login is configured.
func (c LogtoConfig) Enabled() bool {
	return c.Endpoint != "" && c.AppID != ""
}

type JWTConfig struct {
	Secret string
}

type SessionConfig struct {
	Secret string
	Secure bool
}

type MarketplaceConfig struct {
	LowStockThreshold     decimal.Decimal
	PickupAutoConfirmDays int
}

func Load() (*Config, error) {
	godotenv.Load()

	threshold, err := decimal.NewFromString(getEnv("LOW_STOCK_THRESHOLD", "10"))
	if err != nil {
		return nil, err
	}

	autoConfirmDays, err := strconv.Atoi(getEnv("PICKUP_AUTO_CONFIRM_DAYS", "30"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Logto: LogtoConfig{
			Endpoint:      getEnv("LOGTO_ENDPOINT", ""),
			AppID:         getEnv("LOGTO_APP_ID", ""),
			AppSecret:     getEnv("LOGTO_APP_SECRET", ""),
			RedirectURI:   getEnv("LOGTO_REDIRECT_URI", ""),
			PostLogoutURI: getEnv("LOGTO_POST_LOGOUT_URI", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
			Secure: getEnv("SESSION_SECURE", "false") == "true",
		},
		Marketplace: MarketplaceConfig{
			LowStockThreshold:     threshold,
			PickupAutoConfirmDays: autoConfirmDays,
		},
		TestMode: getEnv("TEST_MODE", "false") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
