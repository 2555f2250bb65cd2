package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/cache"
	"github.com/agentsynergy/agentsynergy/pkg/db/dbtest"
	"github.com/agentsynergy/agentsynergy/pkg/middleware"
	"github.com/agentsynergy/agentsynergy/pkg/service"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type responderFunc func(ctx context.Context, agentID, message string, config map[string]interface{}) (string, error)

func (f responderFunc) Respond(ctx context.Context, agentID, message string, config map[string]interface{}) (string, error) {
	return f(ctx, agentID, message, config)
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestAPI wires every handler against an in-memory database. A nil
// responder uses the template responder.
func newTestAPI(t *testing.T, responder service.Responder) *testAPI {
	t.Helper()
	require.NoError(t, RegisterValidators())

	gdb := dbtest.New(t)
	logger := utils.GetLogger()

	auth := service.NewAuthService(gdb, cache.NewMemoryStore(), service.AuthOptions{
		SecretKey:      "handler-test-secret",
		AccessTokenTTL: 30 * time.Minute,
	})
	users := service.NewUserService(gdb)
	agents := service.NewAgentService(gdb, responder, time.Minute)
	conversations := service.NewConversationService(gdb, agents)

	engine := gin.New()
	api := engine.Group("/api/v1")
	NewAuthHandler(auth, users, nil, logger).RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(auth))
	NewUserHandler(users, logger).RegisterRoutes(protected)
	NewAgentHandler(agents, logger).RegisterRoutes(protected)
	NewConversationHandler(conversations, logger).RegisterRoutes(protected)
	NewAnalyticsHandler(service.NewAnalyticsService(gdb, 299), logger).RegisterRoutes(protected)
	NewIntegrationHandler(service.NewIntegrationService(gdb), logger).RegisterRoutes(protected)

	return &testAPI{t: t, db: gdb, engine: engine}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

// signup registers email and returns a bearer token for it.
func (a *testAPI) signup(email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":            email,
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(a.t, w, &tok)
	require.NotEmpty(a.t, tok.AccessToken)
	assert.Equal(a.t, "bearer", tok.TokenType)
	return tok.AccessToken
}

type agentBody struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

func (a *testAPI) createAgent(token string) agentBody {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/agents", token, map[string]interface{}{
		"name":       "Support Bot",
		"agent_type": "support",
		"config":     map[string]interface{}{"agent_type": "support"},
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var agent agentBody
	decode(a.t, w, &agent)
	return agent
}
