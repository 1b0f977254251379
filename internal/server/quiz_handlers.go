package server

import (
	"debteraser/internal/gemini"
	"debteraser/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AnalyzeQuiz handles POST /api/analyze-quiz. It always answers 200 with a
// complete archetype record; when the model is unavailable the record comes
// from the deterministic fallback and carries degraded=true.
func (s *Server) AnalyzeQuiz(c *fiber.Ctx) error {
	var req struct {
		Answers []gemini.QuizAnswer `json:"answers"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid answers format"))
	}
	if req.Answers == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid answers format"))
	}
	for _, a := range req.Answers {
		if a.Question == "" || a.Answer == "" {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Each answer needs a question and an answer"))
		}
	}

	result := s.ai.AnalyzeQuiz(c.Context(), req.Answers)
	return c.JSON(result)
}

// Chat handles POST /api/chat for the War Room advisor. The session history
// lives in the session store; a missing sessionId starts a new session.
func (s *Server) Chat(c *fiber.Ctx) error {
	var req struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Message == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Message is required"))
	}

	sessionID := req.SessionID
	if sessionID == "" {
		// Minted server-side; concurrent first turns must never share a
		// session in the store.
		sessionID = uuid.NewString()
	}

	history, err := s.sessions.Get(c.Context(), sessionID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	reply, degraded := s.ai.Chat(c.Context(), history, req.Message)

	// The degraded canned reply is stored too: the session log should match
	// what the member actually saw.
	if err := s.sessions.Append(c.Context(), sessionID,
		gemini.ChatTurn{Role: "user", Content: req.Message},
		gemini.ChatTurn{Role: "assistant", Content: reply},
	); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	resp := fiber.Map{
		"reply":     reply,
		"sessionId": sessionID,
	}
	if degraded {
		resp["degraded"] = true
	}
	return c.JSON(resp)
}
