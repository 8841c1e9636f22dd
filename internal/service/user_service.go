package service

import (
	"context"
	"errors"
	"time"

	"dreamdeck/internal/models"
	"dreamdeck/internal/repository"
)

// UserService covers profile reads/updates and the lucid dreaming progress
// and challenge surfaces.
type UserService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
}

type UpdateProfileInput struct {
	UserID      uint
	Bio         *string
	DateOfBirth *time.Time
}

type UpsertProgressInput struct {
	UserID              uint
	TechniquesPracticed string
	SuccessRate         float64
}

func NewUserService(userRepo repository.UserRepository, challengeRepo repository.ChallengeRepository) *UserService {
	return &UserService{userRepo: userRepo, challengeRepo: challengeRepo}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		if len(*in.Bio) > 500 {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.DateOfBirth != nil {
		if in.DateOfBirth.After(time.Now()) {
			return nil, models.NewValidationError("Date of birth cannot be in the future")
		}
		user.DateOfBirth = in.DateOfBirth
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProgress returns the user's lucid dreaming progress, or a zeroed record
// when none has been saved yet.
func (s *UserService) GetProgress(ctx context.Context, userID uint) (*models.LucidDreamingProgress, error) {
	progress, err := s.challengeRepo.GetProgress(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return &models.LucidDreamingProgress{UserID: userID}, nil
		}
		return nil, err
	}
	return progress, nil
}

func (s *UserService) UpsertProgress(ctx context.Context, in UpsertProgressInput) (*models.LucidDreamingProgress, error) {
	if in.SuccessRate < 0 || in.SuccessRate > 100 {
		return nil, models.NewValidationError("Success rate must be between 0 and 100")
	}

	progress := &models.LucidDreamingProgress{
		UserID:              in.UserID,
		TechniquesPracticed: in.TechniquesPracticed,
		SuccessRate:         in.SuccessRate,
	}
	if err := s.challengeRepo.UpsertProgress(ctx, progress); err != nil {
		return nil, err
	}
	return s.challengeRepo.GetProgress(ctx, in.UserID)
}

func (s *UserService) ListActiveChallenges(ctx context.Context) ([]models.DreamChallenge, error) {
	return s.challengeRepo.ListActive(ctx, time.Now())
}

func (s *UserService) ListMyChallenges(ctx context.Context, userID uint) ([]models.UserChallenge, error) {
	return s.challengeRepo.ListForUser(ctx, userID)
}

// CompleteChallenge marks a challenge done for the user, joining it first if
// they never had.
func (s *UserService) CompleteChallenge(ctx context.Context, userID, challengeID uint) (*models.UserChallenge, error) {
	if _, err := s.challengeRepo.GetChallenge(ctx, challengeID); err != nil {
		return nil, err
	}
	if _, err := s.challengeRepo.Join(ctx, userID, challengeID); err != nil {
		return nil, err
	}
	return s.challengeRepo.Complete(ctx, userID, challengeID)
}
