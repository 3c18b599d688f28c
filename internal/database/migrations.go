package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskhive/taskhive/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Workspace{},
		&models.Membership{},
		&models.Project{},
		&models.ProjectAccess{},
		&models.Board{},
		&models.Column{},
		&models.Task{},
		&models.Comment{},
		&models.Label{},
		&models.WorkspaceInvite{},
	)
}
