// Package db contains the database connection and schema setup
package db

import (
	"fmt"
	"stackit/qa-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	dsn := viper.GetString("db.dsn")

	switch viper.GetString("db.driver") {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(
		model.User{},
		model.Question{},
		model.Tag{},
		model.Answer{},
		model.Vote{},
		model.VerificationToken{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
