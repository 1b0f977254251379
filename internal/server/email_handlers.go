package server

import (
	"debteraser/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendPDFStackEmail handles POST /api/email/send-pdf-stack
func (s *Server) SendPDFStackEmail(c *fiber.Ctx) error {
	var req struct {
		Email      string `json:"email"`
		Name       string `json:"name"`
		Archetype  string `json:"archetype"`
		PDFStack   string `json:"pdfStack"`
		BattlePlan string `json:"battlePlan"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	if !s.mail.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("Mailjet"))
	}

	if err := s.mail.SendPDFStackEmail(c.Context(), req.Email, req.Name, req.Archetype, req.PDFStack, req.BattlePlan); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"success": true})
}

// SendWelcomeEmail handles POST /api/email/send-welcome
func (s *Server) SendWelcomeEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	if !s.mail.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("Mailjet"))
	}

	if err := s.mail.SendWelcomeEmail(c.Context(), req.Email, req.Name); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"success": true})
}

// SendConsultConfirmationEmail handles POST /api/email/send-consult-confirmation
func (s *Server) SendConsultConfirmationEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	if !s.mail.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("Mailjet"))
	}

	if err := s.mail.SendConsultConfirmationEmail(c.Context(), req.Email, req.Name); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"success": true})
}
