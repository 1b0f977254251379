package server

import (
	"debteraser/internal/models"
	"debteraser/internal/observability"
	"debteraser/internal/stripe"

	"github.com/gofiber/fiber/v2"
)

// CreatePaymentIntent handles POST /api/create-payment-intent. The amount is
// resolved server-side from the plan name; clients never send a price.
func (s *Server) CreatePaymentIntent(c *fiber.Ctx) error {
	var req struct {
		Plan  string `json:"plan"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if _, ok := stripe.PlanAmounts[req.Plan]; !ok {
		observability.PaymentIntents.WithLabelValues(req.Plan, "rejected").Inc()
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid plan"))
	}

	if !s.payments.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("Stripe"))
	}

	intent, err := s.payments.CreatePaymentIntent(c.Context(), req.Plan, req.Email)
	if err != nil {
		observability.PaymentIntents.WithLabelValues(req.Plan, "error").Inc()
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	observability.PaymentIntents.WithLabelValues(req.Plan, "ok").Inc()
	return c.JSON(fiber.Map{"clientSecret": intent.ClientSecret})
}

// VerifyPayment handles POST /api/verify-payment. This is the only place
// access flags get set: the intent is re-read from Stripe and the grant
// happens server-side when its status is succeeded.
func (s *Server) VerifyPayment(c *fiber.Ctx) error {
	var req struct {
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := c.BodyParser(&req); err != nil || req.PaymentIntentID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("paymentIntentId is required"))
	}

	if !s.payments.Enabled() {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewUnavailableError("Stripe"))
	}

	intent, err := s.payments.GetPaymentIntent(c.Context(), req.PaymentIntentID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	if intent.Succeeded() {
		plan := intent.Metadata["plan"]
		email := intent.Metadata["email"]
		if email != "" {
			membership := models.MembershipCommunity
			if plan == "consult" {
				membership = models.MembershipConsult
			}
			if _, err := s.userRepo.GrantAccess(c.Context(), email, membership); err != nil {
				return respondAppError(c, err)
			}
			observability.AccessGrants.WithLabelValues(plan).Inc()
		}
	}

	return c.JSON(fiber.Map{
		"status":   intent.Status,
		"amount":   intent.Amount,
		"metadata": intent.Metadata,
	})
}
