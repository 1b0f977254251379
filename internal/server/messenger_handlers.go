package server

import (
	"debteraser/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetConversations handles GET /api/messenger/conversations for the
// authenticated member, newest activity first. The identity comes from the
// token; a userId query naming anyone else is rejected rather than ignored.
func (s *Server) GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if requested := c.QueryInt("userId", int(userID)); requested != int(userID) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Not your conversations"))
	}

	convs, err := s.chatRepo.ListConversations(c.Context(), userID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(convs)
}

// CreateConversation handles POST /api/messenger/conversations
func (s *Server) CreateConversation(c *fiber.Ctx) error {
	var req struct {
		ParticipantName   string `json:"participant_name"`
		ParticipantAvatar string `json:"participant_avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ParticipantName == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("participant_name is required"))
	}

	conv := &models.Conversation{
		UserID:            c.Locals("userID").(uint),
		ParticipantName:   req.ParticipantName,
		ParticipantAvatar: req.ParticipantAvatar,
	}
	if err := s.chatRepo.CreateConversation(c.Context(), conv); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(conv)
}

// GetMessages handles GET /api/messenger/conversations/:id/messages
func (s *Server) GetMessages(c *fiber.Ctx) error {
	conversationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	conv, err := s.chatRepo.GetConversation(c.Context(), conversationID)
	if err != nil {
		return respondAppError(c, err)
	}
	if conv.UserID != c.Locals("userID").(uint) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Not your conversation"))
	}

	msgs, err := s.chatRepo.ListMessages(c.Context(), conversationID)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(msgs)
}

// SendMessage handles POST /api/messenger/messages. The insert and the
// conversation's cached last-message update happen in one transaction.
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		ConversationID uint   `json:"conversationId"`
		Content        string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ConversationID == 0 || req.Content == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("conversationId and content are required"))
	}

	userID := c.Locals("userID").(uint)
	conv, err := s.chatRepo.GetConversation(c.Context(), req.ConversationID)
	if err != nil {
		return respondAppError(c, err)
	}
	if conv.UserID != userID {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewUnauthorizedError("Not your conversation"))
	}

	msg := &models.Message{
		ConversationID: req.ConversationID,
		SenderID:       userID,
		Content:        req.Content,
	}
	if err := s.chatRepo.CreateMessage(c.Context(), msg); err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      msg.ID,
		"success": true,
	})
}
