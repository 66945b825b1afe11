package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/h4ks-com/palay/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const memoryDSN = ":memory:"

func Connect(databaseURL string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	inMemory := false
	switch {
	case databaseURL == "" || databaseURL == memoryDSN || databaseURL == "sqlite:"+memoryDSN:
		inMemory = true
		db, err = gorm.Open(sqlite.Open(memoryDSN), config)
	case strings.HasPrefix(databaseURL, "sqlite:"):
		// Strip "sqlite:" prefix for SQLite driver
		dbPath := strings.TrimPrefix(databaseURL, "sqlite:")
		dbPath = dbPath + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
		db, err = gorm.Open(sqlite.Open(dbPath), config)
	default:
		db, err = gorm.Open(postgres.Open(databaseURL), config)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if inMemory {
		// Every new connection to :memory: opens a fresh empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access connection pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.APIToken{},
		&models.Laborer{},
		&models.LaborerGroup{},
		&models.LaborerGroupMember{},
		&models.Task{},
		&models.LaborWage{},
		&models.Expense{},
		&models.RiceProduct{},
		&models.RiceOrder{},
		&models.Sale{},
		&models.Notification{},
		&models.InventoryItem{},
		&models.InventoryTransaction{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
