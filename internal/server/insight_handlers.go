package server

import (
	"dreamdeck/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GenerateInsight handles POST /api/dreams/generate-insight
func (s *Server) GenerateInsight(c *fiber.Ctx) error {
	var req struct {
		DreamID uint `json:"dream_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.DreamID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No dream ID provided"))
	}

	result, err := s.insightService.GenerateInsight(c.Context(), currentUserID(c), req.DreamID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"dream_insight":     result.Insight.Analysis,
		"saved_to_database": result.Saved,
	})
}

// CheckInsight handles GET /api/dreams/:id/check-insight
func (s *Server) CheckInsight(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.insightService.CheckInsight(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	if !result.HasInsight {
		return c.JSON(fiber.Map{"has_insight": false})
	}
	return c.JSON(fiber.Map{
		"has_insight": true,
		"content":     result.Content,
	})
}
