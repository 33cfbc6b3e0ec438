// Package store persists user documents. Every mutation goes through
// UpdateUser, which runs the callback inside the backend's single-document
// transaction so concurrent requests for one user never lose updates.
package store

import (
	"combinaapi/models"
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

// UpdateFunc mutates the loaded user in place. Returning an error aborts the
// transaction and nothing is written.
type UpdateFunc func(user *models.UserAccount) error

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.UserAccount, error)
	CreateUser(ctx context.Context, user *models.UserAccount) error
	UpdateUser(ctx context.Context, id string, fn UpdateFunc) (*models.UserAccount, error)
}

// GetOrCreateUser loads the user, creating a free-plan account the first time
// a registered identity is seen.
func GetOrCreateUser(ctx context.Context, s UserStore, id string) (*models.UserAccount, error) {
	user, err := s.GetUser(ctx, id)
	if err == nil || !errors.Is(err, ErrUserNotFound) {
		return user, err
	}
	user = &models.UserAccount{ID: id, Plan: models.PlanFree}
	if err := s.CreateUser(ctx, user); err != nil {
		// lost a creation race against a concurrent request
		if existing, getErr := s.GetUser(ctx, id); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}
