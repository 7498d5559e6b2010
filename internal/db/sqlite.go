package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/caninecompass/k9-backend/internal/platform/logger"
)

// NewSQLite opens a sqlite-backed gorm handle for local development and
// tests. A single connection keeps sqlite's writer lock from surfacing as
// busy errors under concurrent transactions.
func NewSQLite(dsn string, log *logger.Logger) (*gorm.DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := AutoMigrate(gormDB); err != nil {
		return nil, fmt.Errorf("sqlite automigrate: %w", err)
	}
	if log != nil {
		log.Info("Opened sqlite database", "dsn", dsn)
	}
	return gormDB, nil
}
