package store

import (
	"combinaapi/dbhelper"
	"combinaapi/models"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGormStore(t *testing.T) *GormUserStore {
	t.Helper()
	if !dbhelper.TestDBAvailable() {
		t.Skip("TEST_DB_HOST not set; skipping postgres store tests")
	}
	db := dbhelper.SetupTestDB()
	cleaner := dbhelper.SetupCleaner(db)
	t.Cleanup(cleaner)
	return NewGormUserStore(db)
}

func TestGormGetUserNotFound(t *testing.T) {
	s := setupGormStore(t)
	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.UpdateUser(context.Background(), "missing", func(*models.UserAccount) error { return nil })
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGormUpdateUserRoundTrip(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, &models.UserAccount{ID: "u1", Plan: models.PlanFree, Gender: models.GenderMale}))

	_, err := s.UpdateUser(ctx, "u1", func(u *models.UserAccount) error {
		u.Usage = models.UsageRecord{Count: 1, Date: "2026-10-16"}
		u.RecentOutfits = append(u.RecentOutfits, models.RecentOutfit{Items: []string{"1", "2"}, RequestID: "r1"})
		return nil
	})
	require.NoError(t, err)

	user, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, user.Usage.Count)
	require.Len(t, user.RecentOutfits, 1)
	assert.Equal(t, "r1", user.RecentOutfits[0].RequestID)
}

func TestGormUpdateUserAbortsOnCallbackError(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, &models.UserAccount{ID: "u2", Plan: models.PlanFree}))

	boom := errors.New("boom")
	_, err := s.UpdateUser(ctx, "u2", func(u *models.UserAccount) error {
		u.Usage.Count = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)

	user, err := s.GetUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 0, user.Usage.Count)
}

func TestGormConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	s := setupGormStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateUser(ctx, &models.UserAccount{ID: "u3", Plan: models.PlanStandard}))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateUser(ctx, "u3", func(u *models.UserAccount) error {
				u.Usage.RewardedCount++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	user, err := s.GetUser(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, 10, user.Usage.RewardedCount)
}
