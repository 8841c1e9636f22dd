package repository

import (
	"context"
	"errors"

	"dreamdeck/internal/cache"
	"dreamdeck/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsightRepository persists AI-generated dream insights.
type InsightRepository interface {
	// Upsert creates the insight for a dream or overwrites the existing one.
	Upsert(ctx context.Context, insight *models.DreamInsight) error
	GetByDreamID(ctx context.Context, dreamID uint) (*models.DreamInsight, error)
}

type insightRepository struct {
	db *gorm.DB
}

// NewInsightRepository returns a new InsightRepository implementation.
func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

func (r *insightRepository) Upsert(ctx context.Context, insight *models.DreamInsight) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dream_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"summary", "analysis", "updated_at"}),
		}).
		Create(insight).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.InsightKey(insight.DreamID))
	return nil
}

func (r *insightRepository) GetByDreamID(ctx context.Context, dreamID uint) (*models.DreamInsight, error) {
	var insight models.DreamInsight
	key := cache.InsightKey(dreamID)

	err := cache.Aside(ctx, key, &insight, cache.InsightTTL, func() error {
		err := r.db.WithContext(ctx).Where("dream_id = ?", dreamID).First(&insight).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("DreamInsight", dreamID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &insight, nil
}
