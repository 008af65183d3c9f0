// Package db owns the gorm connection lifecycle. The handle is created
// once at startup and passed to every component that needs it; nothing
// here is reassigned after initialization.
package db

import (
	"errors"
	"log"

	"github.com/appdex-dev/appdex/internal/models"
	"github.com/appdex-dev/appdex/internal/types"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(database *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Application{},
		&models.ProbeCheck{},
	}

	migrator := database.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := database.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedDefaultUsers creates the fixed bootstrap identities if they are
// absent. Safe to run on every startup.
func SeedDefaultUsers(database *gorm.DB) error {
	defaults := []models.User{
		{
			Email:     types.SeedAdminEmail,
			FirstName: "Admin",
			LastName:  "User",
			Role:      types.RoleAdmin,
		},
		{
			Email:     types.SeedViewerEmail,
			FirstName: "Default",
			LastName:  "Viewer",
			Role:      types.RoleViewer,
		},
	}

	for _, user := range defaults {
		var existing models.User

		err := database.Where("email = ?", user.Email).First(&existing).Error

		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := database.Create(&user).Error; err != nil {
			return err
		}

		log.Printf("Created default user: %s", user.Email)
	}

	return nil
}
