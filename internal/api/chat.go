package api

import (
	"net/http"
	"time"

	"chat-intake-bot/backend/internal/chat"
	apperrors "chat-intake-bot/backend/pkg/errors"
	"chat-intake-bot/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ChatHandler exposes the conversation endpoints
type ChatHandler struct {
	svc *chat.Service
	log *logger.Logger
}

// NewChatHandler creates a chat handler
func NewChatHandler(svc *chat.Service, log *logger.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

// RegisterRoutes registers the chat routes on the engine
func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/chat", h.Chat)
	router.POST("/chats/start", h.StartChat)
	router.GET("/chats/:session_id/messages", h.GetMessages)
	router.DELETE("/chats/:session_id", h.DeleteChat)
}

// chatRequest is one inbound user message
type chatRequest struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role" binding:"required"`
	Message   string    `json:"message" binding:"required"`
	Intent    string    `json:"intent"`
	Timestamp time.Time `json:"timestamp"`
}

// messageResponse is the wire form of a chat message
type messageResponse struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Intent    string    `json:"intent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Chat handles one conversation turn. A missing session_id creates a new
// session; the reply carries the identifier for follow-up turns.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request body").WithDetails(err.Error()))
		return
	}

	role, err := chat.ParseRole(req.Role)
	if err != nil {
		c.Error(apperrors.NewInvalidInputError("role must be \"user\" or \"assistant\""))
		return
	}
	if role != chat.RoleUser {
		c.Error(apperrors.NewInvalidInputError("only user messages are accepted on this endpoint"))
		return
	}

	reply, sessionID, err := h.svc.Converse(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{
		SessionID: sessionID,
		Role:      string(reply.Role),
		Message:   reply.Content,
		Intent:    string(reply.Intent),
		Timestamp: reply.Timestamp,
	})
}

// startChatRequest opens a session with its first user message
type startChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// StartChat creates a new session seeded with the initial user message
func (h *ChatHandler) StartChat(c *gin.Context) {
	var req startChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperrors.NewInvalidInputError("invalid request body").WithDetails(err.Error()))
		return
	}

	sessionID, err := h.svc.StartSession(c.Request.Context(), req.Message)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session_id": sessionID})
}

// GetMessages returns the full ordered history of a session
func (h *ChatHandler) GetMessages(c *gin.Context) {
	sessionID := c.Param("session_id")

	messages, err := h.svc.History(c.Request.Context(), sessionID)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, messageResponse{
			SessionID: sessionID,
			Role:      string(msg.Role),
			Message:   msg.Content,
			Intent:    string(msg.Intent),
			Timestamp: msg.Timestamp,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"messages":   out,
		"count":      len(out),
	})
}

// DeleteChat removes a session and its history
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.svc.DeleteSession(c.Request.Context(), sessionID); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sessionID,
		"deleted":    true,
	})
}
