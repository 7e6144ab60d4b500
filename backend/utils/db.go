package utils

import (
	"fmt"

	"project/backend/config"
	"project/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the postgres connection and runs migrations.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey, which the get-or-create flows rely on.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := MigrateDB(db); err != nil {
		return nil, err
	}
	return db, nil
}

// MigrateDB creates the schema. The test suite calls it against sqlite.
func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Assignment{},
		&models.Enrollment{},
		&models.Submission{},
		&models.Grade{},
		&models.Quiz{},
		&models.Question{},
		&models.Discussion{},
		&models.CourseRating{},
		&models.LessonProgress{},
		&models.Certificate{},
	)
}
