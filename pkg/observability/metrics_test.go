package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewMetrics(prometheus.NewRegistry())
}

func TestMetrics_ObserveChat(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveChat("support", "completed", 0.25, 10*time.Millisecond)
	m.ObserveChat("support", "completed", 0.5, 10*time.Millisecond)
	m.ObserveChat("support", "failed", 0, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChatsTotal.WithLabelValues("support", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChatsTotal.WithLabelValues("support", "failed")))
	assert.Equal(t, 0.75, testutil.ToFloat64(m.ChatCostTotal.WithLabelValues("support")))
}

func TestMetrics_MiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestMetrics(t)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/agents/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"a", "b", "c"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/agents/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/agents/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "agentsynergy_http_requests_total"))
}
