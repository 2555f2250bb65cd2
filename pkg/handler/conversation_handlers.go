package handler

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentsynergy/agentsynergy/pkg/analytics"
	"github.com/agentsynergy/agentsynergy/pkg/middleware"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/service"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 100
	defaultMessageLimit      = 100
	maxMessageLimit          = 200
)

// ConversationHandler handles conversation and message requests
type ConversationHandler struct {
	conversations *service.ConversationService
	logger        *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *service.ConversationService, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, logger: logger}
}

// RegisterRoutes registers conversation routes
func (h *ConversationHandler) RegisterRoutes(r *gin.RouterGroup) {
	convs := r.Group("/conversations")
	{
		convs.POST("", h.Create)
		convs.GET("", h.List)
		convs.GET("/analytics/summary", h.Summary)
		convs.GET("/:id", h.Get)
		convs.PUT("/:id", h.Update)
		convs.DELETE("/:id", h.Delete)
		convs.POST("/:id/complete", h.Complete)

		convs.POST("/:id/messages", h.AddMessage)
		convs.GET("/:id/messages", h.ListMessages)
	}
}

// Create opens a conversation
// POST /api/v1/conversations
func (h *ConversationHandler) Create(c *gin.Context) {
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	conv, err := h.conversations.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		writeError(c, h.logger, "create conversation", err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Code: http.StatusCreated, Message: "Created", Data: conv})
}

// List lists conversations
// GET /api/v1/conversations?agent_id=&status=&limit=&offset=
func (h *ConversationHandler) List(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultConversationLimit, 1, maxConversationLimit)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	offset, err := queryInt(c, "offset", 0, 0, math.MaxInt32)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	convs, total, err := h.conversations.List(c.Request.Context(), middleware.UserID(c), models.ConversationFilter{
		AgentID: c.Query("agent_id"),
		Status:  c.Query("status"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeError(c, h.logger, "list conversations", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: "OK",
		Data: models.ListResponse{
			Items:  convs,
			Total:  int(total),
			Limit:  limit,
			Offset: offset,
		},
	})
}

// Get gets a conversation
// GET /api/v1/conversations/:id
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.conversations.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get conversation", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: conv})
}

// Update updates a conversation
// PUT /api/v1/conversations/:id
func (h *ConversationHandler) Update(c *gin.Context) {
	var req models.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	conv, err := h.conversations.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		writeError(c, h.logger, "update conversation", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Updated", Data: conv})
}

// Delete deletes a conversation and its messages
// DELETE /api/v1/conversations/:id
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.conversations.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.logger, "delete conversation", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Conversation deleted successfully"})
}

// Complete marks a conversation completed
// POST /api/v1/conversations/:id/complete
func (h *ConversationHandler) Complete(c *gin.Context) {
	conv, err := h.conversations.Complete(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "complete conversation", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Conversation marked as completed", Data: conv})
}

// ========== Messages ==========

// AddMessage appends a message
// POST /api/v1/conversations/:id/messages
func (h *ConversationHandler) AddMessage(c *gin.Context) {
	var req models.AddMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	msg, err := h.conversations.AddMessage(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		writeError(c, h.logger, "add message", err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Code: http.StatusCreated, Message: "Created", Data: msg})
}

// ListMessages lists messages oldest first
// GET /api/v1/conversations/:id/messages?limit=&offset=
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	limit, err := queryInt(c, "limit", defaultMessageLimit, 1, maxMessageLimit)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	offset, err := queryInt(c, "offset", 0, 0, math.MaxInt32)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	msgs, err := h.conversations.ListMessages(c.Request.Context(), middleware.UserID(c), c.Param("id"), limit, offset)
	if err != nil {
		writeError(c, h.logger, "list messages", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: msgs})
}

// Summary rolls up the caller's conversations
// GET /api/v1/conversations/analytics/summary?timeframe=week
func (h *ConversationHandler) Summary(c *gin.Context) {
	w, err := analytics.ParseWindow(c.DefaultQuery("timeframe", "week"), c.Query("days"), 7)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	summary, err := h.conversations.Summary(c.Request.Context(), middleware.UserID(c), w)
	if err != nil {
		writeError(c, h.logger, "summarize conversations", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: summary})
}
