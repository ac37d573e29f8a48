package services

import (
	"context"
	"errors"

	"doorpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountStore backs the per-request account check of the auth middleware.
type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// AccountStatus returns the stored role. Soft-deleted users are not found and report inactive.
func (s *AccountStore) AccountStatus(ctx context.Context, userID uuid.UUID) (string, bool, error) {
	var user models.User
	err := s.db.WithContext(ctx).Select("id", "role", "is_active").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return user.Role, user.IsActive, nil
}
