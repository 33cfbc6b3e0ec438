package store

import (
	"combinaapi/models"
	"context"
	"os"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFirestoreStore(t *testing.T) *FirestoreUserStore {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping firestore store tests")
	}
	client, err := firestore.NewClient(context.Background(), "combina-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return &FirestoreUserStore{Client: client}
}

func TestFirestoreUpdateUser(t *testing.T) {
	s := setupFirestoreStore(t)
	ctx := context.Background()
	id := "user-" + uuid.NewString()

	_, err := s.GetUser(ctx, id)
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, s.CreateUser(ctx, &models.UserAccount{ID: id, Plan: models.PlanPremium}))
	updated, err := s.UpdateUser(ctx, id, func(u *models.UserAccount) error {
		u.Usage = models.UsageRecord{Count: 3, Date: "2026-10-16", RewardedCount: 1}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Usage.Count)

	user, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, models.PlanPremium, user.Plan)
	assert.Equal(t, 1, user.Usage.RewardedCount)
}
