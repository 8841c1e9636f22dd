package service

import (
	"context"
	"strings"
	"testing"

	"dreamdeck/internal/authz"
	"dreamdeck/internal/featureflags"
	"dreamdeck/internal/models"
	"dreamdeck/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInsightFixture(t *testing.T, gen *stubGenerator, flagConfig string) (*InsightService, *gorm.DB, *models.User, *models.Dream) {
	t.Helper()

	db := setupTestDB(t)
	dreamRepo := repository.NewDreamRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	flags := featureflags.NewManager(flagConfig)

	svc := NewInsightService(dreamRepo, insightRepo, gen, "test-pro-model", flags)

	user := createTestUser(t, db, "insightful")
	dreamSvc := NewDreamService(dreamRepo, repository.NewVocabularyRepository(db))
	dream, err := dreamSvc.CreateDream(context.Background(), CreateDreamInput{
		Requester: authz.Requester{UserID: user.ID},
		Title:     "Labyrinth",
		Content:   "I wandered corridors that rearranged behind me.",
	})
	require.NoError(t, err)

	return svc, db, user, dream
}

func TestGenerateInsight_PersistsAndReturns(t *testing.T) {
	gen := &stubGenerator{response: "  A rich analysis of the labyrinth dream.  "}
	svc, db, user, dream := newInsightFixture(t, gen, "insight_tagged_prompt=on")

	result, err := svc.GenerateInsight(context.Background(), user.ID, dream.ID)
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, "A rich analysis of the labyrinth dream.", result.Insight.Analysis)
	assert.Equal(t, "test-pro-model", gen.lastModel)

	var stored models.DreamInsight
	require.NoError(t, db.Where("dream_id = ?", dream.ID).First(&stored).Error)
	assert.Equal(t, result.Insight.Analysis, stored.Analysis)
}

func TestGenerateInsight_RegenerationOverwrites(t *testing.T) {
	gen := &stubGenerator{response: "first analysis"}
	svc, db, user, dream := newInsightFixture(t, gen, "insight_tagged_prompt=on")
	ctx := context.Background()

	_, err := svc.GenerateInsight(ctx, user.ID, dream.ID)
	require.NoError(t, err)

	gen.response = "second analysis"
	_, err = svc.GenerateInsight(ctx, user.ID, dream.ID)
	require.NoError(t, err)

	var count int64
	db.Model(&models.DreamInsight{}).Where("dream_id = ?", dream.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var stored models.DreamInsight
	require.NoError(t, db.Where("dream_id = ?", dream.ID).First(&stored).Error)
	assert.Equal(t, "second analysis", stored.Analysis)
}

func TestGenerateInsight_SummaryTruncation(t *testing.T) {
	long := strings.Repeat("é", models.InsightSummaryLen+500)
	gen := &stubGenerator{response: long}
	svc, _, user, dream := newInsightFixture(t, gen, "insight_tagged_prompt=on")

	result, err := svc.GenerateInsight(context.Background(), user.ID, dream.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InsightSummaryLen, len([]rune(result.Insight.Summary)))
	assert.Equal(t, long, result.Insight.Analysis)
}

func TestGenerateInsight_ForeignDreamIsNotFound(t *testing.T) {
	gen := &stubGenerator{response: "analysis"}
	svc, db, _, dream := newInsightFixture(t, gen, "insight_tagged_prompt=on")
	stranger := createTestUser(t, db, "stranger")

	_, err := svc.GenerateInsight(context.Background(), stranger.ID, dream.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
	assert.Empty(t, gen.lastPrompt, "no generation call for foreign dreams")
}

func TestGenerateInsight_PromptVariantFollowsFlag(t *testing.T) {
	t.Run("tagged prompt when flag on", func(t *testing.T) {
		gen := &stubGenerator{response: "analysis"}
		svc, _, user, dream := newInsightFixture(t, gen, "insight_tagged_prompt=on")

		_, err := svc.GenerateInsight(context.Background(), user.ID, dream.ID)
		require.NoError(t, err)
		assert.Contains(t, gen.lastPrompt, "<dream_content>")
		assert.Contains(t, gen.lastPrompt, "corridors that rearranged")
	})

	t.Run("structured prompt when flag off", func(t *testing.T) {
		gen := &stubGenerator{response: "analysis"}
		svc, _, user, dream := newInsightFixture(t, gen, "insight_tagged_prompt=off")

		_, err := svc.GenerateInsight(context.Background(), user.ID, dream.ID)
		require.NoError(t, err)
		assert.NotContains(t, gen.lastPrompt, "<dream_content>")
		assert.Contains(t, gen.lastPrompt, "Knowledge Base:")
		assert.Contains(t, gen.lastPrompt, "corridors that rearranged")
	})
}

func TestCheckInsight(t *testing.T) {
	gen := &stubGenerator{response: "analysis text"}
	svc, db, user, dream := newInsightFixture(t, gen, "insight_tagged_prompt=on")
	ctx := context.Background()

	t.Run("no insight yet", func(t *testing.T) {
		result, err := svc.CheckInsight(ctx, user.ID, dream.ID)
		require.NoError(t, err)
		assert.False(t, result.HasInsight)
		assert.Empty(t, result.Content)
	})

	t.Run("after generation", func(t *testing.T) {
		_, err := svc.GenerateInsight(ctx, user.ID, dream.ID)
		require.NoError(t, err)

		result, err := svc.CheckInsight(ctx, user.ID, dream.ID)
		require.NoError(t, err)
		assert.True(t, result.HasInsight)
		assert.Equal(t, "analysis text", result.Content)
	})

	t.Run("foreign dream is not found", func(t *testing.T) {
		stranger := createTestUser(t, db, "checker")
		_, err := svc.CheckInsight(ctx, stranger.ID, dream.ID)
		require.Error(t, err)
		appErr, ok := err.(*models.AppError)
		require.True(t, ok)
		assert.Equal(t, "NOT_FOUND", appErr.Code)
	})
}
