package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"dreamdeck/internal/genai"
	"dreamdeck/internal/models"
	"dreamdeck/internal/observability"
)

// SuggestionService asks the text-generation provider for themes, emotions,
// and titles based on raw dream content. Nothing here is persisted.
type SuggestionService struct {
	gen   genai.Generator
	model string
}

// EmotionSuggestion is one suggested emotion name.
type EmotionSuggestion struct {
	Name string `json:"name"`
}

func NewSuggestionService(gen genai.Generator, model string) *SuggestionService {
	return &SuggestionService{gen: gen, model: model}
}

const themePromptTemplate = `Based on the following dream content, suggest 3 relevant themes.
Please format your response as a numbered list, with each theme on a new line.
Each theme should be a single word.
Do not include any additional text or explanations.

Dream content:
%s

Response format example:
1. Adventure
2. Mystery
3. Nature

Your theme suggestions:`

const emotionPromptTemplate = `Based on the following dream content, suggest 3 relevant emotions that the dreamer might have experienced.
Please format your response as a numbered list, with each emotion on a new line.
Do not include any additional text or explanations.

Dream content:
%s

Response format example:
1. Joy
2. Anxiety
3. Curiosity

Your emotion suggestions:`

const titlePromptTemplate = `Based on the following dream content, suggest a creative and engaging title for the dream.
The title should be concise (no more than 10 words) and capture the essence or most striking element of the dream.
Please provide only the title, without any additional text or explanations.

Dream content:
%s

ALWAYS USE USER'S LANGUAGE!!!

Your title suggestion:`

const maxTitleWords = 10

func (s *SuggestionService) SuggestThemes(ctx context.Context, content string) ([]string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("No content provided")
	}

	prompt := fmt.Sprintf(themePromptTemplate, content)
	text, err := s.gen.Generate(ctx, s.model, prompt)
	observability.RecordGeneration("suggest_themes", prompt, text, err)
	if err != nil {
		return nil, models.NewUpstreamError(err)
	}

	themes := parseNumberedList(text)
	return themes, nil
}

func (s *SuggestionService) SuggestEmotions(ctx context.Context, content string) ([]EmotionSuggestion, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("No content provided")
	}

	prompt := fmt.Sprintf(emotionPromptTemplate, content)
	text, err := s.gen.Generate(ctx, s.model, prompt)
	observability.RecordGeneration("suggest_emotions", prompt, text, err)
	if err != nil {
		return nil, models.NewUpstreamError(err)
	}

	suggestions := make([]EmotionSuggestion, 0, 3)
	for _, value := range parseNumberedList(text) {
		// Models often append qualifiers like "Fear (of falling)"; keep
		// only the bare emotion name.
		if idx := strings.Index(value, "("); idx >= 0 {
			value = value[:idx]
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		suggestions = append(suggestions, EmotionSuggestion{Name: value})
	}
	return suggestions, nil
}

func (s *SuggestionService) SuggestTitle(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", models.NewValidationError("No content provided")
	}

	prompt := fmt.Sprintf(titlePromptTemplate, content)
	text, err := s.gen.Generate(ctx, s.model, prompt)
	observability.RecordGeneration("suggest_title", prompt, text, err)
	if err != nil {
		return "", models.NewUpstreamError(err)
	}

	title := strings.TrimSpace(text)
	words := strings.Fields(title)
	if len(words) > maxTitleWords {
		title = strings.Join(words[:maxTitleWords], " ") + "..."
	}
	return title, nil
}

// parseNumberedList extracts the values from a "1. Value" style response.
// A line only counts if its first non-space character is a digit; everything
// after the first ". " is the value. Preamble and commentary lines are
// dropped by construction.
func parseNumberedList(text string) []string {
	values := make([]string, 0, 3)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !unicode.IsDigit(rune(line[0])) {
			continue
		}
		value := line
		if idx := strings.Index(line, ". "); idx >= 0 {
			value = line[idx+2:]
		}
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}
