// Package service contains the domain logic between HTTP handlers and
// repositories.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dreamdeck/internal/authz"
	"dreamdeck/internal/models"
	"dreamdeck/internal/repository"
)

type DreamService struct {
	dreamRepo repository.DreamRepository
	vocabRepo repository.VocabularyRepository
	policy    authz.DreamPolicy
}

// EmotionInput is one emotion attachment in a create/update request.
type EmotionInput struct {
	Name      string `json:"name"`
	Intensity int    `json:"intensity"`
}

type CreateDreamInput struct {
	Requester      authz.Requester
	Title          string
	Content        string
	IsLucid        bool
	AudioRecording string
	Emotions       []EmotionInput
	Themes         []string
}

type UpdateDreamInput struct {
	Requester authz.Requester
	DreamID        uint
	Title          *string
	Content        *string
	IsLucid        *bool
	AudioRecording *string
	Emotions       []EmotionInput
	Themes         []string
	// ReplaceLinks controls whether Emotions/Themes overwrite existing links.
	// A request that omits both lists leaves them untouched.
	ReplaceEmotions bool
	ReplaceThemes   bool
}

type ListDreamsInput struct {
	Requester authz.Requester
	Limit     int
	Offset    int
}

func NewDreamService(
	dreamRepo repository.DreamRepository,
	vocabRepo repository.VocabularyRepository,
) *DreamService {
	return &DreamService{
		dreamRepo: dreamRepo,
		vocabRepo: vocabRepo,
	}
}

const (
	maxTitleLen   = 255
	maxContentLen = 50000
)

func (s *DreamService) CreateDream(ctx context.Context, in CreateDreamInput) (*models.Dream, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if err := validateEmotionInputs(in.Emotions); err != nil {
		return nil, err
	}

	dream := &models.Dream{
		UserID:         in.Requester.UserID,
		Title:          in.Title,
		Content:        in.Content,
		Date:           time.Now(),
		IsLucid:        in.IsLucid,
		AudioRecording: in.AudioRecording,
	}
	if err := s.dreamRepo.Create(ctx, dream); err != nil {
		return nil, err
	}

	emotionLinks, err := s.resolveEmotions(ctx, dream.ID, in.Emotions)
	if err != nil {
		return nil, err
	}
	if len(emotionLinks) > 0 {
		if err := s.dreamRepo.ReplaceEmotions(ctx, dream.ID, emotionLinks); err != nil {
			return nil, err
		}
	}

	themeLinks, err := s.resolveThemes(ctx, dream.ID, in.Themes)
	if err != nil {
		return nil, err
	}
	if len(themeLinks) > 0 {
		if err := s.dreamRepo.ReplaceThemes(ctx, dream.ID, themeLinks); err != nil {
			return nil, err
		}
	}

	return s.dreamRepo.GetByID(ctx, dream.ID)
}

// GetDream returns a dream the requester is allowed to see. Dreams the
// requester cannot view report not-found rather than forbidden, so one
// user cannot probe for another user's dream IDs.
func (s *DreamService) GetDream(ctx context.Context, r authz.Requester, dreamID uint) (*models.Dream, error) {
	dream, err := s.dreamRepo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Can(r, authz.ActionView, dream.UserID) {
		return nil, models.NewNotFoundError("Dream", dreamID)
	}
	return dream, nil
}

// ListDreams returns the requester's own dreams, or every dream when the
// requester is staff.
func (s *DreamService) ListDreams(ctx context.Context, in ListDreamsInput) ([]models.Dream, int64, error) {
	if s.policy.CanListAll(in.Requester) {
		return s.dreamRepo.ListAll(ctx, in.Limit, in.Offset)
	}
	return s.dreamRepo.ListByUser(ctx, in.Requester.UserID, in.Limit, in.Offset)
}

// ListMyDreams always scopes to the requester, regardless of staff status.
func (s *DreamService) ListMyDreams(ctx context.Context, in ListDreamsInput) ([]models.Dream, int64, error) {
	return s.dreamRepo.ListByUser(ctx, in.Requester.UserID, in.Limit, in.Offset)
}

// BrowseAllDreams exposes the full journal to premium accounts.
func (s *DreamService) BrowseAllDreams(ctx context.Context, in ListDreamsInput) ([]models.Dream, int64, error) {
	if !s.policy.CanBrowseAll(in.Requester) {
		return nil, 0, models.NewPermissionDeniedError("You do not have permission to perform this action")
	}
	return s.dreamRepo.ListAll(ctx, in.Limit, in.Offset)
}

func (s *DreamService) UpdateDream(ctx context.Context, in UpdateDreamInput) (*models.Dream, error) {
	dream, err := s.dreamRepo.GetByID(ctx, in.DreamID)
	if err != nil {
		return nil, err
	}
	if !s.policy.Can(in.Requester, authz.ActionUpdate, dream.UserID) {
		return nil, models.NewNotFoundError("Dream", in.DreamID)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("Title is required")
		}
		if len(*in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 255 characters)")
		}
		dream.Title = *in.Title
	}
	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("Content is required")
		}
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		dream.Content = *in.Content
	}
	if in.IsLucid != nil {
		dream.IsLucid = *in.IsLucid
	}
	if in.AudioRecording != nil {
		dream.AudioRecording = *in.AudioRecording
	}

	// Date is never part of the updatable column set.
	if err := s.dreamRepo.Update(ctx, dream); err != nil {
		return nil, err
	}

	if in.ReplaceEmotions {
		if err := validateEmotionInputs(in.Emotions); err != nil {
			return nil, err
		}
		links, err := s.resolveEmotions(ctx, dream.ID, in.Emotions)
		if err != nil {
			return nil, err
		}
		if err := s.dreamRepo.ReplaceEmotions(ctx, dream.ID, links); err != nil {
			return nil, err
		}
	}
	if in.ReplaceThemes {
		links, err := s.resolveThemes(ctx, dream.ID, in.Themes)
		if err != nil {
			return nil, err
		}
		if err := s.dreamRepo.ReplaceThemes(ctx, dream.ID, links); err != nil {
			return nil, err
		}
	}

	return s.dreamRepo.GetByID(ctx, dream.ID)
}

func (s *DreamService) DeleteDream(ctx context.Context, r authz.Requester, dreamID uint) error {
	dream, err := s.dreamRepo.GetByID(ctx, dreamID)
	if err != nil {
		return err
	}
	if !s.policy.Can(r, authz.ActionDelete, dream.UserID) {
		return models.NewPermissionDeniedError("You do not have permission to delete this dream")
	}
	return s.dreamRepo.Delete(ctx, dream)
}

func validateEmotionInputs(emotions []EmotionInput) error {
	for _, e := range emotions {
		if strings.TrimSpace(e.Name) == "" {
			return models.NewValidationError("Emotion name is required")
		}
		if e.Intensity < models.MinIntensity || e.Intensity > models.MaxIntensity {
			return models.NewValidationError(fmt.Sprintf(
				"Emotion intensity must be between %d and %d", models.MinIntensity, models.MaxIntensity))
		}
	}
	return nil
}

// resolveEmotions maps emotion inputs to link rows, collapsing repeated
// names within one request to a single link (first occurrence wins).
func (s *DreamService) resolveEmotions(ctx context.Context, dreamID uint, inputs []EmotionInput) ([]models.DreamEmotion, error) {
	seen := make(map[string]bool, len(inputs))
	links := make([]models.DreamEmotion, 0, len(inputs))

	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if seen[name] {
			continue
		}
		seen[name] = true

		emotion, err := s.vocabRepo.GetOrCreateEmotion(ctx, name)
		if err != nil {
			return nil, err
		}
		links = append(links, models.DreamEmotion{
			DreamID:   dreamID,
			EmotionID: emotion.ID,
			Intensity: in.Intensity,
		})
	}
	return links, nil
}

func (s *DreamService) resolveThemes(ctx context.Context, dreamID uint, names []string) ([]models.DreamTheme, error) {
	seen := make(map[string]bool, len(names))
	links := make([]models.DreamTheme, 0, len(names))

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, models.NewValidationError("Theme name is required")
		}
		if seen[name] {
			continue
		}
		seen[name] = true

		theme, err := s.vocabRepo.GetOrCreateTheme(ctx, name)
		if err != nil {
			return nil, err
		}
		links = append(links, models.DreamTheme{
			DreamID: dreamID,
			ThemeID: theme.ID,
		})
	}
	return links, nil
}
