package server

import (
	"dreamdeck/internal/models"
	"dreamdeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

type dreamRequest struct {
	Title          *string                `json:"title"`
	Content        *string                `json:"content"`
	IsLucid        *bool                  `json:"is_lucid"`
	AudioRecording *string                `json:"audio_recording"`
	Emotions       []service.EmotionInput `json:"emotions"`
	Themes         []string               `json:"themes"`
}

// CreateDream handles POST /api/dreams
func (s *Server) CreateDream(c *fiber.Ctx) error {
	var req dreamRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	r, err := s.requester(c)
	if err != nil {
		return nil
	}

	in := service.CreateDreamInput{
		Requester: r,
		Emotions:  req.Emotions,
		Themes:    req.Themes,
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Content != nil {
		in.Content = *req.Content
	}
	if req.IsLucid != nil {
		in.IsLucid = *req.IsLucid
	}
	if req.AudioRecording != nil {
		in.AudioRecording = *req.AudioRecording
	}

	dream, err := s.dreamService.CreateDream(c.Context(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dream)
}

// GetDreams handles GET /api/dreams — the requester's dreams, or every
// dream when staff.
func (s *Server) GetDreams(c *fiber.Ctx) error {
	r, err := s.requester(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	dreams, total, err := s.dreamService.ListDreams(c.Context(), service.ListDreamsInput{
		Requester: r,
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"dreams": dreams, "total": total})
}

// GetMyDreams handles GET /api/dreams/my_dreams
func (s *Server) GetMyDreams(c *fiber.Ctx) error {
	r, err := s.requester(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	dreams, total, err := s.dreamService.ListMyDreams(c.Context(), service.ListDreamsInput{
		Requester: r,
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"dreams": dreams, "total": total})
}

// GetAllDreams handles GET /api/dreams/all_dreams (premium only)
func (s *Server) GetAllDreams(c *fiber.Ctx) error {
	r, err := s.requester(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	dreams, total, err := s.dreamService.BrowseAllDreams(c.Context(), service.ListDreamsInput{
		Requester: r,
		Limit:     p.Limit,
		Offset:    p.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"dreams": dreams, "total": total})
}

// GetDream handles GET /api/dreams/:id
func (s *Server) GetDream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	r, err := s.requester(c)
	if err != nil {
		return nil
	}

	dream, err := s.dreamService.GetDream(c.Context(), r, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(dream)
}

// UpdateDream handles PUT /api/dreams/:id
func (s *Server) UpdateDream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req dreamRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	r, err := s.requester(c)
	if err != nil {
		return nil
	}

	dream, err := s.dreamService.UpdateDream(c.Context(), service.UpdateDreamInput{
		Requester:       r,
		DreamID:         id,
		Title:           req.Title,
		Content:         req.Content,
		IsLucid:         req.IsLucid,
		AudioRecording:  req.AudioRecording,
		Emotions:        req.Emotions,
		Themes:          req.Themes,
		ReplaceEmotions: req.Emotions != nil,
		ReplaceThemes:   req.Themes != nil,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(dream)
}

// DeleteDream handles DELETE /api/dreams/:id
func (s *Server) DeleteDream(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	r, err := s.requester(c)
	if err != nil {
		return nil
	}

	if err := s.dreamService.DeleteDream(c.Context(), r, id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
