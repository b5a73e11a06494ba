package database

import (
	"fmt"
	"time"

	"jobnest_backend/internal/config"
	"jobnest_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to Postgres and verifies the connection with a ping.
func Open(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every table the service uses.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto: %w", err)
	}

	err := db.AutoMigrate(
		&models.JobSeekerProfile{},
		&models.EmployerProfile{},
		&models.JobPosting{},
		&models.Question{},
		&models.QuizSession{},
		&models.AssessmentResult{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	// jsonb_exists_any over employer tags
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_employers_tags ON employers USING GIN (tags)`).Error; err != nil {
		return fmt.Errorf("failed to create employers tags index: %w", err)
	}
	return nil
}
