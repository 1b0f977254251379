package server

import (
	"errors"

	"debteraser/internal/hubspot"
	"debteraser/internal/models"
	"debteraser/internal/observability"
	"debteraser/internal/repository"
	"debteraser/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CaptureLead handles POST /api/leads. A captured email becomes a free-tier
// user row (if one does not exist) and, when the CRM is configured, a
// contact. CRM trouble never fails the capture.
func (s *Server) CaptureLead(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	user := &models.User{Email: req.Email, Name: req.Name}
	err := s.userRepo.Create(c.Context(), user)
	if err != nil && !errors.Is(err, repository.ErrDuplicateEmail) {
		return respondAppError(c, err)
	}
	alreadyKnown := errors.Is(err, repository.ErrDuplicateEmail)

	if s.crm.Enabled() {
		_, crmErr := s.crm.CreateContact(c.Context(), hubspot.Contact{
			Email:      req.Email,
			FirstName:  req.Name,
			LeadSource: "landing_page",
		})
		if crmErr != nil {
			observability.CRMSyncs.WithLabelValues("contact", "error").Inc()
		} else {
			observability.CRMSyncs.WithLabelValues("contact", "ok").Inc()
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"alreadyKnown": alreadyKnown,
	})
}
