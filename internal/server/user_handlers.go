package server

import (
	"time"

	"dreamdeck/internal/models"
	"dreamdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Bio         *string    `json:"bio"`
		DateOfBirth *time.Time `json:"date_of_birth"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:      currentUserID(c),
		Bio:         req.Bio,
		DateOfBirth: req.DateOfBirth,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetLucidProgress handles GET /api/lucid-progress
func (s *Server) GetLucidProgress(c *fiber.Ctx) error {
	progress, err := s.userService.GetProgress(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(progress)
}

// UpdateLucidProgress handles PUT /api/lucid-progress
func (s *Server) UpdateLucidProgress(c *fiber.Ctx) error {
	var req struct {
		TechniquesPracticed string  `json:"techniques_practiced"`
		SuccessRate         float64 `json:"success_rate"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	progress, err := s.userService.UpsertProgress(c.Context(), service.UpsertProgressInput{
		UserID:              currentUserID(c),
		TechniquesPracticed: req.TechniquesPracticed,
		SuccessRate:         req.SuccessRate,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(progress)
}

// GetActiveChallenges handles GET /api/challenges
func (s *Server) GetActiveChallenges(c *fiber.Ctx) error {
	challenges, err := s.userService.ListActiveChallenges(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(challenges)
}

// GetMyChallenges handles GET /api/challenges/me
func (s *Server) GetMyChallenges(c *fiber.Ctx) error {
	challenges, err := s.userService.ListMyChallenges(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(challenges)
}

// CompleteChallenge handles POST /api/challenges/:id/complete
func (s *Server) CompleteChallenge(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	uc, err := s.userService.CompleteChallenge(c.Context(), currentUserID(c), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(uc)
}
