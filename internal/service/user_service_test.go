package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"dreamdeck/internal/models"
	"dreamdeck/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserFixture(t *testing.T) (*UserService, *gorm.DB, *models.User) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewChallengeRepository(db))
	user := createTestUser(t, db, "profileuser")
	return svc, db, user
}

func TestUpdateProfile(t *testing.T) {
	svc, _, user := newUserFixture(t)
	ctx := context.Background()

	t.Run("sets bio and date of birth", func(t *testing.T) {
		bio := "Lucid dreamer since 2019."
		dob := time.Date(1992, 4, 12, 0, 0, 0, 0, time.UTC)

		updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: &bio, DateOfBirth: &dob})
		require.NoError(t, err)
		assert.Equal(t, bio, updated.Bio)
		require.NotNil(t, updated.DateOfBirth)
		assert.True(t, updated.DateOfBirth.Equal(dob))
	})

	t.Run("rejects overlong bio", func(t *testing.T) {
		bio := strings.Repeat("a", 501)
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: &bio})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
	})

	t.Run("rejects future date of birth", func(t *testing.T) {
		dob := time.Now().Add(48 * time.Hour)
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, DateOfBirth: &dob})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		bio := "Only the bio changes."
		updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{UserID: user.ID, Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, bio, updated.Bio)
		require.NotNil(t, updated.DateOfBirth)
	})
}

func TestProgress(t *testing.T) {
	svc, _, user := newUserFixture(t)
	ctx := context.Background()

	t.Run("defaults to zeroed record", func(t *testing.T) {
		progress, err := svc.GetProgress(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, progress.UserID)
		assert.Empty(t, progress.TechniquesPracticed)
		assert.Zero(t, progress.SuccessRate)
	})

	t.Run("upsert then read back", func(t *testing.T) {
		_, err := svc.UpsertProgress(ctx, UpsertProgressInput{
			UserID:              user.ID,
			TechniquesPracticed: "MILD, WBTB",
			SuccessRate:         42.5,
		})
		require.NoError(t, err)

		progress, err := svc.GetProgress(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "MILD, WBTB", progress.TechniquesPracticed)
		assert.Equal(t, 42.5, progress.SuccessRate)
	})

	t.Run("rejects out of range success rate", func(t *testing.T) {
		for _, rate := range []float64{-0.1, 100.1} {
			_, err := svc.UpsertProgress(ctx, UpsertProgressInput{UserID: user.ID, SuccessRate: rate})
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", err.(*models.AppError).Code)
		}
	})
}

func TestCompleteChallenge(t *testing.T) {
	svc, db, user := newUserFixture(t)
	ctx := context.Background()

	challenge := models.DreamChallenge{
		Title:       "Reality check week",
		Description: "Perform ten reality checks a day.",
		StartDate:   time.Now().Add(-24 * time.Hour),
		EndDate:     time.Now().Add(6 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&challenge).Error)

	t.Run("completes without joining first", func(t *testing.T) {
		uc, err := svc.CompleteChallenge(ctx, user.ID, challenge.ID)
		require.NoError(t, err)
		assert.True(t, uc.Completed)

		mine, err := svc.ListMyChallenges(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.True(t, mine[0].Completed)
	})

	t.Run("unknown challenge is not found", func(t *testing.T) {
		_, err := svc.CompleteChallenge(ctx, user.ID, 9999)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", err.(*models.AppError).Code)
	})
}
