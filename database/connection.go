package database

import (
	"fmt"
	"log"

	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/config"
	"github.com/Ananth-NQI/truckpe-carrier-engine/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN builds the Postgres connection string
func DSN(cfg config.DBConfig) string {
	if cfg.InstanceConnectionName != "" {
		// Production: Cloud SQL unix socket
		return fmt.Sprintf("host=/cloudsql/%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.InstanceConnectionName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port)
}

// Connect opens the database
func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	if cfg.InstanceConnectionName != "" {
		log.Printf("Connecting to Cloud SQL via socket: %s", cfg.InstanceConnectionName)
	} else {
		log.Printf("Connecting to PostgreSQL at %s:%s", cfg.Host, cfg.Port)
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connected successfully!")
	return db, nil
}

// Migrate creates or updates the engine tables, including the
// (carrier_id, period) unique index on scorecards
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")
	err := db.AutoMigrate(
		&models.CarrierProfile{},
		&models.Load{},
		&models.Scorecard{},
		&models.TierTransition{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("✅ Database migrations completed!")
	return nil
}
