package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentsynergy/agentsynergy/pkg/middleware"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/service"
)

// AgentHandler handles agent HTTP requests
type AgentHandler struct {
	agents *service.AgentService
	logger *slog.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agents *service.AgentService, logger *slog.Logger) *AgentHandler {
	return &AgentHandler{agents: agents, logger: logger}
}

// RegisterRoutes registers agent routes
func (h *AgentHandler) RegisterRoutes(r *gin.RouterGroup) {
	agents := r.Group("/agents")
	{
		agents.POST("", h.Create)
		agents.GET("", h.List)
		agents.GET("/:id", h.Get)
		agents.PUT("/:id", h.Update)
		agents.DELETE("/:id", h.Delete)
		agents.POST("/:id/chat", h.Chat)
	}
}

// Create creates an agent
// POST /api/v1/agents
func (h *AgentHandler) Create(c *gin.Context) {
	var req models.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	agent, err := h.agents.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		writeError(c, h.logger, "create agent", err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Code: http.StatusCreated, Message: "Created", Data: agent})
}

// List lists the caller's agents
// GET /api/v1/agents
func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.agents.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "list agents", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: agents})
}

// Get gets an agent
// GET /api/v1/agents/:id
func (h *AgentHandler) Get(c *gin.Context) {
	agent, err := h.agents.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "get agent", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: agent})
}

// Update updates an agent
// PUT /api/v1/agents/:id
func (h *AgentHandler) Update(c *gin.Context) {
	var req models.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	agent, err := h.agents.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		writeError(c, h.logger, "update agent", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Updated", Data: agent})
}

// Delete deletes an agent
// DELETE /api/v1/agents/:id
func (h *AgentHandler) Delete(c *gin.Context) {
	if err := h.agents.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		writeError(c, h.logger, "delete agent", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Agent deleted successfully"})
}

// Chat sends one message to an agent and returns the stored conversation
// POST /api/v1/agents/:id/chat
func (h *AgentHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	conv, err := h.agents.Chat(c.Request.Context(), middleware.UserID(c), c.Param("id"), &req)
	if err != nil {
		writeError(c, h.logger, "chat with agent", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: conv})
}
