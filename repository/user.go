package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"photoshare/models"
)

// UserRepository reads the externally provisioned users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NotFound("user", models.CauseMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// Ensure returns the user with the given username, creating it when missing.
// The role of an existing user is left untouched.
func (r *UserRepository) Ensure(ctx context.Context, username, fullName string, role models.Role) (*models.User, error) {
	user := models.User{Username: username, FullName: fullName, Role: role}
	err := r.db.WithContext(ctx).Where(models.User{Username: username}).FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("ensure user %s: %w", username, err)
	}
	return &user, nil
}
