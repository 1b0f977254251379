package server

import (
	"errors"

	"debteraser/internal/hubspot"
	"debteraser/internal/models"
	"debteraser/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// CreateCRMContact handles POST /api/hubspot/create-contact
func (s *Server) CreateCRMContact(c *fiber.Ctx) error {
	var req struct {
		Email          string  `json:"email"`
		FirstName      string  `json:"firstName"`
		LastName       string  `json:"lastName"`
		Phone          string  `json:"phone"`
		LeadSource     string  `json:"leadSource"`
		QuizResults    any     `json:"quizResults"`
		PurchaseAmount float64 `json:"purchaseAmount"`
		PurchaseType   string  `json:"purchaseType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}

	if !s.crm.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("HubSpot"))
	}

	contactID, err := s.crm.CreateContact(c.Context(), hubspot.Contact{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		LeadSource:     req.LeadSource,
		QuizResults:    req.QuizResults,
		PurchaseAmount: req.PurchaseAmount,
		PurchaseType:   req.PurchaseType,
	})
	if err != nil {
		observability.CRMSyncs.WithLabelValues("contact", "error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	observability.CRMSyncs.WithLabelValues("contact", "ok").Inc()
	return c.JSON(fiber.Map{
		"success":   true,
		"contactId": contactID,
	})
}

// UpdateCRMContact handles POST /api/hubspot/update-contact. All body fields
// except email are forwarded as contact properties.
func (s *Server) UpdateCRMContact(c *fiber.Ctx) error {
	var req map[string]string
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	email := req["email"]
	if email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email is required"))
	}
	delete(req, "email")

	if !s.crm.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("HubSpot"))
	}

	contactID, err := s.crm.UpdateContact(c.Context(), email, req)
	if err != nil {
		if errors.Is(err, hubspot.ErrContactNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewValidationError("Contact not found"))
		}
		observability.CRMSyncs.WithLabelValues("contact", "error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	observability.CRMSyncs.WithLabelValues("contact", "ok").Inc()
	return c.JSON(fiber.Map{
		"success":   true,
		"contactId": contactID,
	})
}

// CreateCRMDeal handles POST /api/hubspot/create-deal
func (s *Server) CreateCRMDeal(c *fiber.Ctx) error {
	var req struct {
		Email     string  `json:"email"`
		DealName  string  `json:"dealName"`
		Amount    float64 `json:"amount"`
		DealStage string  `json:"dealStage"`
		DealType  string  `json:"dealType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" || req.DealName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and dealName are required"))
	}

	if !s.crm.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("HubSpot"))
	}

	dealID, err := s.crm.CreateDeal(c.Context(), hubspot.Deal{
		Email:     req.Email,
		DealName:  req.DealName,
		Amount:    req.Amount,
		DealStage: req.DealStage,
		DealType:  req.DealType,
	})
	if err != nil {
		if errors.Is(err, hubspot.ErrContactNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewValidationError("Contact not found"))
		}
		observability.CRMSyncs.WithLabelValues("deal", "error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	observability.CRMSyncs.WithLabelValues("deal", "ok").Inc()
	return c.JSON(fiber.Map{
		"success": true,
		"dealId":  dealID,
	})
}
