package store

import (
	"combinaapi/models"
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type FirestoreUserStore struct {
	Client *firestore.Client
}

func NewFirestoreUserStore(ctx context.Context, app *firebase.App) (*FirestoreUserStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open firestore client: %w", err)
	}
	return &FirestoreUserStore{Client: client}, nil
}

func (s *FirestoreUserStore) doc(id string) *firestore.DocumentRef {
	return s.Client.Collection(usersCollection).Doc(id)
}

func decodeUser(id string, snap *firestore.DocumentSnapshot) (*models.UserAccount, error) {
	var user models.UserAccount
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", id, err)
	}
	user.ID = id
	return &user, nil
}

func (s *FirestoreUserStore) GetUser(ctx context.Context, id string) (*models.UserAccount, error) {
	snap, err := s.doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", id, err)
	}
	return decodeUser(id, snap)
}

func (s *FirestoreUserStore) CreateUser(ctx context.Context, user *models.UserAccount) error {
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	if _, err := s.doc(user.ID).Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.ID, err)
	}
	return nil
}

// UpdateUser runs fn inside a Firestore transaction; Firestore retries the
// callback on contention, so fn must not have side effects beyond the user.
func (s *FirestoreUserStore) UpdateUser(ctx context.Context, id string, fn UpdateFunc) (*models.UserAccount, error) {
	var updated *models.UserAccount
	ref := s.doc(id)
	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}
		user, err := decodeUser(id, snap)
		if err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
		user.UpdatedAt = time.Now()
		updated = user
		return tx.Set(ref, user)
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user %s: %w", id, err)
	}
	return updated, nil
}
