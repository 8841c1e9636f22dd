package server

import (
	"strings"

	"dreamdeck/internal/models"

	"github.com/gofiber/fiber/v2"
)

type vocabularyRequest struct {
	Name string `json:"name"`
}

// GetEmotions handles GET /api/emotions
func (s *Server) GetEmotions(c *fiber.Ctx) error {
	emotions, err := s.vocabRepo.ListEmotions(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(emotions)
}

// CreateEmotion handles POST /api/emotions — create-if-absent by name.
func (s *Server) CreateEmotion(c *fiber.Ctx) error {
	var req vocabularyRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name is required"))
	}

	emotion, err := s.vocabRepo.GetOrCreateEmotion(c.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(emotion)
}

// GetThemes handles GET /api/themes
func (s *Server) GetThemes(c *fiber.Ctx) error {
	themes, err := s.vocabRepo.ListThemes(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(themes)
}

// CreateTheme handles POST /api/themes — create-if-absent by name.
func (s *Server) CreateTheme(c *fiber.Ctx) error {
	var req vocabularyRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name is required"))
	}

	theme, err := s.vocabRepo.GetOrCreateTheme(c.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(theme)
}
