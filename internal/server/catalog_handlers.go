package server

import (
	"time"

	"debteraser/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetModules handles GET /api/modules
func (s *Server) GetModules(c *fiber.Ctx) error {
	modules, err := s.catalogRepo.ListModules(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(modules)
}

// GetVaultResources handles GET /api/vault/resources with optional
// ?category= filtering. "all" means no filter.
func (s *Server) GetVaultResources(c *fiber.Ctx) error {
	category := c.Query("category")
	if category == "all" {
		category = ""
	}

	resources, err := s.catalogRepo.ListResources(c.Context(), category)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(resources)
}

// GetVaultResource handles GET /api/vault/resources/:id
func (s *Server) GetVaultResource(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	resource, err := s.catalogRepo.GetResource(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(resource)
}

// GetCalendarEvents handles GET /api/calendar/events
func (s *Server) GetCalendarEvents(c *fiber.Ctx) error {
	events, err := s.catalogRepo.ListEvents(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(events)
}

// CreateCalendarEvent handles POST /api/calendar/events
func (s *Server) CreateCalendarEvent(c *fiber.Ctx) error {
	var req struct {
		Title       string    `json:"title"`
		Date        time.Time `json:"date"`
		Type        string    `json:"type"`
		Description string    `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" || req.Date.IsZero() {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title and date are required"))
	}

	event := &models.CalendarEvent{
		Title:       req.Title,
		Date:        req.Date,
		Type:        req.Type,
		Description: req.Description,
	}
	if err := s.catalogRepo.CreateEvent(c.Context(), event); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      event.ID,
		"success": true,
	})
}
