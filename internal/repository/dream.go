package repository

import (
	"context"
	"errors"

	"dreamdeck/internal/cache"
	"dreamdeck/internal/models"

	"gorm.io/gorm"
)

// DreamRepository defines persistence operations for dreams and their
// emotion/theme links.
type DreamRepository interface {
	Create(ctx context.Context, dream *models.Dream) error
	GetByID(ctx context.Context, id uint) (*models.Dream, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Dream, int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]models.Dream, int64, error)
	Update(ctx context.Context, dream *models.Dream) error
	Delete(ctx context.Context, dream *models.Dream) error
	ReplaceEmotions(ctx context.Context, dreamID uint, links []models.DreamEmotion) error
	ReplaceThemes(ctx context.Context, dreamID uint, links []models.DreamTheme) error
}

type dreamRepository struct {
	db *gorm.DB
}

// NewDreamRepository returns a new DreamRepository implementation.
func NewDreamRepository(db *gorm.DB) DreamRepository {
	return &dreamRepository{db: db}
}

func (r *dreamRepository) Create(ctx context.Context, dream *models.Dream) error {
	if err := r.db.WithContext(ctx).Create(dream).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *dreamRepository) GetByID(ctx context.Context, id uint) (*models.Dream, error) {
	var dream models.Dream
	err := r.db.WithContext(ctx).
		Preload("Emotions.Emotion").
		Preload("Themes.Theme").
		Preload("Insight").
		First(&dream, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Dream", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &dream, nil
}

func (r *dreamRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Dream, int64, error) {
	var dreams []models.Dream
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Dream{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := q.
		Preload("Emotions.Emotion").
		Preload("Themes.Theme").
		Preload("Insight").
		Order("date DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&dreams).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return dreams, total, nil
}

func (r *dreamRepository) ListAll(ctx context.Context, limit, offset int) ([]models.Dream, int64, error) {
	var dreams []models.Dream
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Dream{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	err := r.db.WithContext(ctx).
		Preload("Emotions.Emotion").
		Preload("Themes.Theme").
		Preload("Insight").
		Order("date DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&dreams).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return dreams, total, nil
}

func (r *dreamRepository) Update(ctx context.Context, dream *models.Dream) error {
	err := r.db.WithContext(ctx).Model(dream).
		Select("Title", "Content", "IsLucid", "AudioRecording").
		Updates(dream).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDream(ctx, dream.ID)
	return nil
}

// Delete removes a dream and everything attached to it. Child rows are
// deleted explicitly inside a transaction so behavior does not depend on
// database-level cascade enforcement.
func (r *dreamRepository) Delete(ctx context.Context, dream *models.Dream) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dream_id = ?", dream.ID).Delete(&models.DreamEmotion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dream_id = ?", dream.ID).Delete(&models.DreamTheme{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dream_id = ?", dream.ID).Delete(&models.DreamInsight{}).Error; err != nil {
			return err
		}
		return tx.Delete(dream).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDream(ctx, dream.ID)
	return nil
}

func (r *dreamRepository) ReplaceEmotions(ctx context.Context, dreamID uint, links []models.DreamEmotion) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dream_id = ?", dreamID).Delete(&models.DreamEmotion{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDream(ctx, dreamID)
	return nil
}

func (r *dreamRepository) ReplaceThemes(ctx context.Context, dreamID uint, links []models.DreamTheme) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dream_id = ?", dreamID).Delete(&models.DreamTheme{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateDream(ctx, dreamID)
	return nil
}
