package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"guardline/internal/models"
)

// Init opens the postgres connection and provisions the schema. The
// migration runs once at startup; nothing patches the schema at
// request time.
func Init(dsn string) *gorm.DB {
	if dsn == "" {
		log.Fatal("DATABASE_DSN required")
	}
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect db:", err)
	}
	if err := Migrate(conn); err != nil {
		log.Fatal("auto migrate failed:", err)
	}
	return conn
}

// Migrate creates or updates the five application tables.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.User{},
		&models.VerificationCode{},
		&models.EmergencyContact{},
		&models.SosEvent{},
		&models.SosAlert{},
	)
}
