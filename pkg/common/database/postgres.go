package database

import (
	"fmt"

	"github.com/acuity-health/triage-engine/pkg/common/config"
	"github.com/acuity-health/triage-engine/pkg/common/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewPostgres opens a connection pool from the supplied configuration.
// Handles are constructed explicitly and injected; there is no
// package-level singleton.
func NewPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.PostgresHost,
		cfg.PostgresUser,
		cfg.PostgresPassword,
		cfg.PostgresDB,
		cfg.PostgresPort,
		cfg.PostgresSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	logger.Log.Info("Connected to PostgreSQL")
	return db, nil
}

func ClosePostgres(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
