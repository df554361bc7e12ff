package database

import (
	"gorm.io/gorm"

	"github.com/monambengouta/we-settle/internal/models"
	"github.com/monambengouta/we-settle/pkg/crypto"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Inscription{},
	)
}

// SeedData inserts a demo user and a pair of pending inscriptions when the
// database is empty. Safe to call repeatedly.
func SeedData(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount == 0 {
		hashed, err := crypto.HashPassword("password123")
		if err != nil {
			return err
		}

		user := models.User{
			Email:     "john@mail.com",
			Password:  hashed,
			FirstName: "John",
			LastName:  "Doe",
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}

		inscriptions := []models.Inscription{
			{UserID: user.ID, Name: "John", Lastname: "Doe", Email: "john.doe@example.com"},
			{UserID: user.ID, Name: "Jane", Lastname: "Smith", Email: "jane.smith@example.com"},
		}
		for _, inscription := range inscriptions {
			record := inscription
			if err := db.Create(&record).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
