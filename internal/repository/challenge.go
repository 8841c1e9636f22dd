package repository

import (
	"context"
	"errors"
	"time"

	"dreamdeck/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChallengeRepository manages journaling challenges and per-user lucid
// dreaming progress.
type ChallengeRepository interface {
	// ListActive returns challenges whose window contains now.
	ListActive(ctx context.Context, now time.Time) ([]models.DreamChallenge, error)
	GetChallenge(ctx context.Context, id uint) (*models.DreamChallenge, error)
	// Join is idempotent: joining a challenge twice keeps the single
	// existing participation row.
	Join(ctx context.Context, userID, challengeID uint) (*models.UserChallenge, error)
	Complete(ctx context.Context, userID, challengeID uint) (*models.UserChallenge, error)
	ListForUser(ctx context.Context, userID uint) ([]models.UserChallenge, error)

	GetProgress(ctx context.Context, userID uint) (*models.LucidDreamingProgress, error)
	UpsertProgress(ctx context.Context, progress *models.LucidDreamingProgress) error
}

type challengeRepository struct {
	db *gorm.DB
}

// NewChallengeRepository returns a new ChallengeRepository implementation.
func NewChallengeRepository(db *gorm.DB) ChallengeRepository {
	return &challengeRepository{db: db}
}

func (r *challengeRepository) ListActive(ctx context.Context, now time.Time) ([]models.DreamChallenge, error) {
	var challenges []models.DreamChallenge
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Order("start_date ASC").
		Find(&challenges).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return challenges, nil
}

func (r *challengeRepository) GetChallenge(ctx context.Context, id uint) (*models.DreamChallenge, error) {
	var challenge models.DreamChallenge
	if err := r.db.WithContext(ctx).First(&challenge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("DreamChallenge", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &challenge, nil
}

func (r *challengeRepository) Join(ctx context.Context, userID, challengeID uint) (*models.UserChallenge, error) {
	uc := models.UserChallenge{UserID: userID, ChallengeID: challengeID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&uc).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	err = r.db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&uc).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &uc, nil
}

func (r *challengeRepository) Complete(ctx context.Context, userID, challengeID uint) (*models.UserChallenge, error) {
	var uc models.UserChallenge
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		First(&uc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("UserChallenge", challengeID)
		}
		return nil, models.NewInternalError(err)
	}

	if !uc.Completed {
		uc.Completed = true
		if err := r.db.WithContext(ctx).Model(&uc).Update("completed", true).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return &uc, nil
}

func (r *challengeRepository) ListForUser(ctx context.Context, userID uint) ([]models.UserChallenge, error) {
	var ucs []models.UserChallenge
	err := r.db.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ?", userID).
		Find(&ucs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ucs, nil
}

func (r *challengeRepository) GetProgress(ctx context.Context, userID uint) (*models.LucidDreamingProgress, error) {
	var progress models.LucidDreamingProgress
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&progress).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("LucidDreamingProgress", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &progress, nil
}

func (r *challengeRepository) UpsertProgress(ctx context.Context, progress *models.LucidDreamingProgress) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"techniques_practiced", "success_rate"}),
		}).
		Create(progress).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
