package server

import (
	"dreamdeck/internal/models"

	"github.com/gofiber/fiber/v2"
)

type suggestionRequest struct {
	Content string `json:"content"`
}

// SuggestThemes handles POST /api/dreams/suggest-themes
func (s *Server) SuggestThemes(c *fiber.Ctx) error {
	var req suggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	themes, err := s.suggestionService.SuggestThemes(c.Context(), req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"suggested_themes": themes})
}

// SuggestEmotions handles POST /api/dreams/suggest-emotions
func (s *Server) SuggestEmotions(c *fiber.Ctx) error {
	var req suggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	emotions, err := s.suggestionService.SuggestEmotions(c.Context(), req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"suggested_emotions": emotions})
}

// SuggestTitle handles POST /api/dreams/suggest-title
func (s *Server) SuggestTitle(c *fiber.Ctx) error {
	var req suggestionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	title, err := s.suggestionService.SuggestTitle(c.Context(), req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"suggested_title": title})
}
