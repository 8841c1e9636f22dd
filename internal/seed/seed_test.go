package seed

import (
	"testing"

	"dreamdeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Dream{},
		&models.Emotion{},
		&models.Theme{},
		&models.DreamEmotion{},
		&models.DreamTheme{},
		&models.DreamInsight{},
		&models.ArtworkGeneration{},
		&models.SoundtrackGeneration{},
		&models.DreamChallenge{},
		&models.UserChallenge{},
		&models.LucidDreamingProgress{},
		&models.CulturalInterpretation{},
		&models.DailyTask{},
		&models.DreamMeditation{},
		&models.DreamPrompt{},
		&models.CollaborativeDream{},
	))
	return db
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{
		NumUsers:      5,
		DreamsPerUser: 3,
		NumChallenges: 2,
		WithInsights:  true,
	}))

	var userCount, dreamCount, insightCount, challengeCount, progressCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Dream{}).Count(&dreamCount)
	db.Model(&models.DreamInsight{}).Count(&insightCount)
	db.Model(&models.DreamChallenge{}).Count(&challengeCount)
	db.Model(&models.LucidDreamingProgress{}).Count(&progressCount)

	// 5 seeded users plus the admin account.
	assert.Equal(t, int64(6), userCount)
	assert.Equal(t, int64(15), dreamCount)
	assert.Equal(t, int64(5), insightCount)
	assert.Equal(t, int64(2), challengeCount)
	assert.Equal(t, int64(5), progressCount)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, admin.IsStaff)
	assert.True(t, admin.IsPremium)

	// Every dream carries at least one emotion and theme link.
	var linkCount int64
	db.Model(&models.DreamEmotion{}).Count(&linkCount)
	assert.GreaterOrEqual(t, linkCount, dreamCount)
}

func TestSeedCleanWipesPreviousData(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 2, DreamsPerUser: 2}))
	require.NoError(t, Seed(db, Options{NumUsers: 1, DreamsPerUser: 1, ShouldClean: true}))

	var userCount, dreamCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Dream{}).Count(&dreamCount)

	assert.Equal(t, int64(2), userCount)
	assert.Equal(t, int64(1), dreamCount)
}

func TestFactoryIntensityBounds(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db)

	user, err := f.CreateUser()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := f.CreateDream(user)
		require.NoError(t, err)
	}

	var links []models.DreamEmotion
	require.NoError(t, db.Find(&links).Error)
	require.NotEmpty(t, links)
	for _, link := range links {
		assert.GreaterOrEqual(t, link.Intensity, models.MinIntensity)
		assert.LessOrEqual(t, link.Intensity, models.MaxIntensity)
	}
}
