package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/palay/internal/config"
	"github.com/h4ks-com/palay/internal/database"
	"github.com/h4ks-com/palay/internal/repository"
	"github.com/h4ks-com/palay/internal/services"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			log.Fatal(err)
		}
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gin.SetMode(cfg.GinMode)

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = randomSecret()
		log.Println("[Session] SESSION_SECRET not set, using a random secret; sessions will not survive restarts")
	}

	db, err := database.Connect(cfg.Database.URL)
	if err != nil {
		return err
	}

	if err := database.Migrate(db); err != nil {
		return err
	}

	tokenService := services.NewTokenService(repository.NewTokenRepository(db), repository.NewUserRepository(db), cfg.JWT.Secret)
	if purged, err := tokenService.PurgeExpired(); err != nil {
		log.Printf("[Tokens] Failed to purge expired tokens: %v", err)
	} else if purged > 0 {
		log.Printf("[Tokens] Purged %d expired tokens", purged)
	}

	router := newRouter(cfg, db)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Palay server on %s", addr)
	if cfg.TestMode {
		log.Println("TEST MODE ENABLED - Authentication bypassed")
	}
	return router.Run(addr)
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
