package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"crypto-radar/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the database and runs migrations.
// A DSN containing "@tcp(" is treated as MySQL; anything else is a
// SQLite file path (the local/dev default).
func Initialize(databaseURL string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if strings.Contains(databaseURL, "@tcp(") {
		db, err = gorm.Open(mysql.Open(databaseURL), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		db, err = gorm.Open(sqlite.Open(databaseURL), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}
		// uniqueness and FK invariants are enforced by the engine, not the app
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.Snapshot{},
		&models.AssetRecord{},
		&models.SignalStats{},
	); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}
