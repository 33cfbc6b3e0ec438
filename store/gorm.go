package store

import (
	"combinaapi/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormUserStore struct {
	DB *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

func (s *GormUserStore) GetUser(ctx context.Context, id string) (*models.UserAccount, error) {
	var user models.UserAccount
	result := s.DB.WithContext(ctx).Where("id = ?", id).Take(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, result.Error)
	}
	return &user, nil
}

func (s *GormUserStore) CreateUser(ctx context.Context, user *models.UserAccount) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

// UpdateUser locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (s *GormUserStore) UpdateUser(ctx context.Context, id string, fn UpdateFunc) (*models.UserAccount, error) {
	var user models.UserAccount
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).Take(&user)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		if result.Error != nil {
			return result.Error
		}
		if err := fn(&user); err != nil {
			return err
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return &user, nil
}
