package database

import (
	"log"

	"github.com/wanderdesk/booking-api/internal/config"
	"github.com/wanderdesk/booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Package{},
		&models.Booking{},
		&models.BookingStatusChange{},
		&models.Operator{},
		&models.APIKey{},
	)
}
