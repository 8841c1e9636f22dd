package repository

import (
	"context"

	"dreamdeck/internal/cache"
	"dreamdeck/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VocabularyRepository manages the global emotion and theme vocabularies.
// Creation is conflict-safe: concurrent inserts of the same name resolve to
// a single row via INSERT ... ON CONFLICT DO NOTHING plus a re-read.
type VocabularyRepository interface {
	GetOrCreateEmotion(ctx context.Context, name string) (*models.Emotion, error)
	GetOrCreateTheme(ctx context.Context, name string) (*models.Theme, error)
	ListEmotions(ctx context.Context) ([]models.Emotion, error)
	ListThemes(ctx context.Context) ([]models.Theme, error)
}

type vocabularyRepository struct {
	db *gorm.DB
}

// NewVocabularyRepository returns a new VocabularyRepository implementation.
func NewVocabularyRepository(db *gorm.DB) VocabularyRepository {
	return &vocabularyRepository{db: db}
}

func (r *vocabularyRepository) GetOrCreateEmotion(ctx context.Context, name string) (*models.Emotion, error) {
	emotion := models.Emotion{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&emotion).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// The insert is silently skipped when the row already exists, so read
	// back by name to get the canonical ID either way.
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&emotion).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateVocab(ctx, "emotions")
	return &emotion, nil
}

func (r *vocabularyRepository) GetOrCreateTheme(ctx context.Context, name string) (*models.Theme, error) {
	theme := models.Theme{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&theme).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&theme).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateVocab(ctx, "themes")
	return &theme, nil
}

func (r *vocabularyRepository) ListEmotions(ctx context.Context) ([]models.Emotion, error) {
	var emotions []models.Emotion
	err := cache.Aside(ctx, cache.VocabKey("emotions"), &emotions, cache.VocabTTL, func() error {
		return r.db.WithContext(ctx).Order("name ASC").Find(&emotions).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return emotions, nil
}

func (r *vocabularyRepository) ListThemes(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	err := cache.Aside(ctx, cache.VocabKey("themes"), &themes, cache.VocabTTL, func() error {
		return r.db.WithContext(ctx).Order("name ASC").Find(&themes).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return themes, nil
}
