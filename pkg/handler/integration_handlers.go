package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentsynergy/agentsynergy/pkg/middleware"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/service"
)

type IntegrationHandler struct {
	integrations *service.IntegrationService
	logger       *slog.Logger
}

func NewIntegrationHandler(integrations *service.IntegrationService, logger *slog.Logger) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations, logger: logger}
}

// RegisterRoutes registers integration routes
func (h *IntegrationHandler) RegisterRoutes(r *gin.RouterGroup) {
	in := r.Group("/integrations")
	{
		in.GET("", h.List)
		in.GET("/status", h.Status)
		in.POST("/:platform", h.Upsert)
		in.DELETE("/:platform", h.Delete)
	}
}

func (h *IntegrationHandler) List(c *gin.Context) {
	rows, err := h.integrations.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "list integrations", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: rows})
}

// Upsert stores the request body as the platform's config. An empty body
// is an empty config.
// POST /api/v1/integrations/:platform
func (h *IntegrationHandler) Upsert(c *gin.Context) {
	config := map[string]interface{}{}
	if err := c.ShouldBindJSON(&config); err != nil && err != io.EOF {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	row, err := h.integrations.Upsert(c.Request.Context(), middleware.UserID(c), c.Param("platform"), config)
	if err != nil {
		writeError(c, h.logger, "configure integration", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: row.Platform + " integration configured successfully", Data: row})
}

// Delete removes an integration; deleting one that does not exist succeeds.
func (h *IntegrationHandler) Delete(c *gin.Context) {
	if err := h.integrations.Delete(c.Request.Context(), middleware.UserID(c), c.Param("platform")); err != nil {
		writeError(c, h.logger, "delete integration", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Integration deleted successfully"})
}

func (h *IntegrationHandler) Status(c *gin.Context) {
	status, err := h.integrations.Status(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "load integration status", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: status})
}
