package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/carebridge/carebridge/internal/infra/database/models"
)

func NewPostgres(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger,
	})
	return db, err
}

// MigratePatient applies the patient service schema.
func MigratePatient(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Patient{},
	)
}

// MigrateAuth applies the auth service schema.
func MigrateAuth(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
	)
}
