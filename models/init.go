package models

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates or updates the schema. Order matters for foreign keys.
func Migrate(db *gorm.DB) error {
	for _, model := range []any{&User{}, &Photo{}, &PhotoPerson{}, &Comment{}, &Rating{}} {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}
