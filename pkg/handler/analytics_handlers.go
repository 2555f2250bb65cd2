package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentsynergy/agentsynergy/pkg/analytics"
	"github.com/agentsynergy/agentsynergy/pkg/middleware"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/service"
)

const defaultWindowDays = 30

// AnalyticsHandler serves the read-only reports under /analytics.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

func NewAnalyticsHandler(svc *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: svc, logger: logger}
}

// RegisterRoutes registers analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r *gin.RouterGroup) {
	a := r.Group("/analytics")
	{
		a.GET("/overview", h.Overview)
		a.GET("/roi", h.ROI)
		a.GET("/conversations", h.Conversations)
		a.GET("/costs", h.Costs)
		a.GET("/trends", h.Trends)
		a.GET("/agents/:id/performance", h.AgentPerformance)
	}
}

// window reads ?timeframe= or ?days=. On failure it writes a 400 and
// returns false.
func (h *AnalyticsHandler) window(c *gin.Context) (analytics.Window, bool) {
	w, err := analytics.ParseWindow(c.Query("timeframe"), c.Query("days"), defaultWindowDays)
	if err != nil {
		badRequest(c, err.Error())
		return analytics.Window{}, false
	}
	return w, true
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	out, err := h.analytics.Overview(c.Request.Context(), middleware.UserID(c), w)
	if err != nil {
		writeError(c, h.logger, "load analytics overview", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: out})
}

func (h *AnalyticsHandler) ROI(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	out, err := h.analytics.ROI(c.Request.Context(), middleware.UserID(c), w)
	if err != nil {
		writeError(c, h.logger, "calculate ROI", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: out})
}

func (h *AnalyticsHandler) Conversations(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	out, err := h.analytics.Conversations(c.Request.Context(), middleware.UserID(c), w)
	if err != nil {
		writeError(c, h.logger, "load conversation analytics", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: out})
}

func (h *AnalyticsHandler) Costs(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	out, err := h.analytics.Costs(c.Request.Context(), middleware.UserID(c), w)
	if err != nil {
		writeError(c, h.logger, "load cost analytics", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: out})
}

// Trends always covers the last 90 days.
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	out, err := h.analytics.Trends(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "load trends", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: out})
}

func (h *AnalyticsHandler) AgentPerformance(c *gin.Context) {
	w, ok := h.window(c)
	if !ok {
		return
	}
	out, err := h.analytics.AgentPerformance(c.Request.Context(), middleware.UserID(c), c.Param("id"), w)
	if err != nil {
		writeError(c, h.logger, "load agent performance", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: out})
}
