package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dreamdeck/internal/featureflags"
	"dreamdeck/internal/genai"
	"dreamdeck/internal/models"
	"dreamdeck/internal/observability"
	"dreamdeck/internal/repository"
)

// InsightService generates and persists the interpretive analysis for a
// dream. Generation uses the pro model; regeneration overwrites the stored
// insight.
type InsightService struct {
	dreamRepo   repository.DreamRepository
	insightRepo repository.InsightRepository
	gen         genai.Generator
	model       string
	flags       *featureflags.Manager
}

type InsightResult struct {
	Insight *models.DreamInsight
	Saved   bool
}

type CheckInsightResult struct {
	HasInsight bool
	Content    string
}

func NewInsightService(
	dreamRepo repository.DreamRepository,
	insightRepo repository.InsightRepository,
	gen genai.Generator,
	model string,
	flags *featureflags.Manager,
) *InsightService {
	return &InsightService{
		dreamRepo:   dreamRepo,
		insightRepo: insightRepo,
		gen:         gen,
		model:       model,
		flags:       flags,
	}
}

// GenerateInsight runs one generation call for the given dream and upserts
// the result. Insight generation is strictly per-owner: even staff cannot
// generate for someone else's dream, and foreign dreams report not-found.
func (s *InsightService) GenerateInsight(ctx context.Context, userID, dreamID uint) (*InsightResult, error) {
	dream, err := s.ownedDream(ctx, userID, dreamID)
	if err != nil {
		return nil, err
	}

	prompt := s.buildPrompt(userID, dream.Content)
	text, genErr := s.gen.Generate(ctx, s.model, prompt)
	observability.RecordGeneration("generate_insight", prompt, text, genErr)
	if genErr != nil {
		return nil, models.NewUpstreamError(genErr)
	}

	analysis := strings.TrimSpace(text)
	insight := &models.DreamInsight{
		DreamID:  dream.ID,
		Summary:  summarize(analysis),
		Analysis: analysis,
	}
	if err := s.insightRepo.Upsert(ctx, insight); err != nil {
		return nil, err
	}

	return &InsightResult{Insight: insight, Saved: true}, nil
}

// CheckInsight reports whether the requester's dream has a stored insight.
func (s *InsightService) CheckInsight(ctx context.Context, userID, dreamID uint) (*CheckInsightResult, error) {
	if _, err := s.ownedDream(ctx, userID, dreamID); err != nil {
		return nil, err
	}

	insight, err := s.insightRepo.GetByDreamID(ctx, dreamID)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
			return &CheckInsightResult{HasInsight: false}, nil
		}
		return nil, err
	}
	return &CheckInsightResult{HasInsight: true, Content: insight.Analysis}, nil
}

func (s *InsightService) ownedDream(ctx context.Context, userID, dreamID uint) (*models.Dream, error) {
	dream, err := s.dreamRepo.GetByID(ctx, dreamID)
	if err != nil {
		return nil, err
	}
	if dream.UserID != userID {
		return nil, models.NewNotFoundError("Dream", dreamID)
	}
	return dream, nil
}

func (s *InsightService) buildPrompt(userID uint, content string) string {
	if s.flags.Enabled(featureflags.InsightTaggedPrompt, userID) {
		return fmt.Sprintf(taggedInsightPromptTemplate, content)
	}
	return fmt.Sprintf(structuredInsightPromptTemplate, interpretationGuide, content)
}

// summarize keeps the leading portion of the analysis as the summary,
// truncating on rune boundaries so multi-byte text stays valid.
func summarize(analysis string) string {
	runes := []rune(analysis)
	if len(runes) <= models.InsightSummaryLen {
		return analysis
	}
	return string(runes[:models.InsightSummaryLen])
}
