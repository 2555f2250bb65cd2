package service

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/analytics"
	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/utils"
)

var (
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrAgentProcessing = errors.New("agent processing failed")
)

// ChatObserver is notified after every chat attempt.
type ChatObserver interface {
	ObserveChat(agentType, status string, cost float64, elapsed time.Duration)
}

// AgentService manages agent records and runs chats against them.
type AgentService struct {
	db             *gorm.DB
	responder      Responder
	defaultTimeout time.Duration
	observer       ChatObserver
	logger         *slog.Logger
}

func NewAgentService(gdb *gorm.DB, responder Responder, defaultTimeout time.Duration) *AgentService {
	if responder == nil {
		responder = TemplateResponder{}
	}
	if defaultTimeout <= 0 {
		defaultTimeout = 300 * time.Second
	}
	return &AgentService{
		db:             gdb,
		responder:      responder,
		defaultTimeout: defaultTimeout,
		logger:         utils.GetLogger(),
	}
}

// SetObserver sets the chat observer
func (s *AgentService) SetObserver(o ChatObserver) {
	s.observer = o
}

// Create stores a new inactive agent owned by userID.
func (s *AgentService) Create(ctx context.Context, userID string, req *models.CreateAgentRequest) (*db.Agent, error) {
	if req.UserID != "" && req.UserID != userID {
		return nil, ErrAccessDenied
	}
	agent := &db.Agent{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        req.Name,
		AgentType:   req.AgentType,
		Description: req.Description,
		Config:      datatypes.JSONMap(req.Config),
		Status:      db.AgentStatusInactive,
	}
	if agent.Config == nil {
		agent.Config = datatypes.JSONMap{}
	}
	if err := s.db.WithContext(ctx).Create(agent).Error; err != nil {
		return nil, errors.Wrap(err, "create agent")
	}
	s.logger.Info("Agent created", "agentId", agent.ID, "userId", userID, "type", agent.AgentType)
	return agent, nil
}

// List returns the caller's agents, newest first.
func (s *AgentService) List(ctx context.Context, userID string) ([]db.Agent, error) {
	agents := []db.Agent{}
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, errors.Wrap(err, "list agents")
	}
	return agents, nil
}

// Get loads an agent by id. A missing row is ErrAgentNotFound and a row
// owned by someone else is ErrAccessDenied.
func (s *AgentService) Get(ctx context.Context, userID, id string) (*db.Agent, error) {
	var agent db.Agent
	if err := s.db.WithContext(ctx).First(&agent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, errors.Wrap(err, "load agent")
	}
	if agent.UserID != userID {
		return nil, ErrAccessDenied
	}
	return &agent, nil
}

func (s *AgentService) Update(ctx context.Context, userID, id string, req *models.UpdateAgentRequest) (*db.Agent, error) {
	agent, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Config != nil {
		updates["config"] = datatypes.JSONMap(req.Config)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(agent).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update agent")
		}
	}
	return s.Get(ctx, userID, id)
}

func (s *AgentService) Delete(ctx context.Context, userID, id string) error {
	agent, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(agent).Error; err != nil {
		return errors.Wrap(err, "delete agent")
	}
	s.logger.Info("Agent deleted", "agentId", id, "userId", userID)
	return nil
}

// Chat records a pending conversation, asks the responder for a reply within
// the agent's timeout and stores the outcome. A responder failure marks the
// conversation failed and returns ErrAgentProcessing together with the row.
func (s *AgentService) Chat(ctx context.Context, userID, agentID string, req *models.ChatRequest) (*db.Conversation, error) {
	if req.UserID != "" && req.UserID != userID {
		return nil, ErrAccessDenied
	}
	agent, err := s.Get(ctx, userID, agentID)
	if err != nil {
		return nil, err
	}

	convType := req.ConversationType
	if convType == "" {
		convType = db.ConversationTypeCustom
	}
	conv := &db.Conversation{
		ID:               uuid.New().String(),
		UserID:           userID,
		AgentID:          agentID,
		Title:            db.DefaultConversationTitle,
		ConversationType: convType,
		Status:           db.ConversationStatusPending,
		Metadata:         datatypes.JSONMap(req.Metadata),
		Message:          req.Message,
	}
	if conv.Metadata == nil {
		conv.Metadata = datatypes.JSONMap{}
	}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, errors.Wrap(err, "create conversation")
	}

	start := time.Now()
	timeout := s.timeoutFor(agent)
	response, err := s.respond(ctx, agent, req.Message, timeout)
	elapsed := time.Since(start)

	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "agent timed out after " + timeout.String()
		}
		s.logger.Error("Agent processing failed", "agentId", agentID, "conversationId", conv.ID, "error", err)
		if uerr := s.db.WithContext(context.WithoutCancel(ctx)).Model(conv).Updates(map[string]interface{}{
			"status":        db.ConversationStatusFailed,
			"error_message": msg,
		}).Error; uerr != nil {
			s.logger.Error("Failed to mark conversation failed", "conversationId", conv.ID, "error", uerr)
		}
		conv.Status = db.ConversationStatusFailed
		conv.ErrorMessage = &msg
		s.observe(agent.AgentType, conv.Status, 0, elapsed)
		return conv, errors.Wrap(ErrAgentProcessing, msg)
	}

	model, _ := agent.Config["model"].(string)
	cost := analytics.EstimateCost(analytics.EstimateTokens(req.Message, response), model)
	if err := s.db.WithContext(ctx).Model(conv).Updates(map[string]interface{}{
		"status":   db.ConversationStatusCompleted,
		"response": response,
		"cost":     cost,
	}).Error; err != nil {
		return nil, errors.Wrap(err, "store agent response")
	}
	conv.Status = db.ConversationStatusCompleted
	conv.Response = &response
	conv.Cost = cost
	s.observe(agent.AgentType, conv.Status, cost, elapsed)
	return conv, nil
}

func (s *AgentService) respond(ctx context.Context, agent *db.Agent, message string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.responder.Respond(ctx, agent.ID, message, agent.Config)
		done <- result{text, err}
	}()

	select {
	case r := <-done:
		return r.text, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// MaxAgentTimeout caps config["timeout"].
const MaxAgentTimeout = time.Hour

// timeoutFor reads config["timeout"] in seconds. Missing, non-numeric,
// non-finite or non-positive values use the service default; values above
// MaxAgentTimeout are clamped.
func (s *AgentService) timeoutFor(agent *db.Agent) time.Duration {
	var secs float64
	switch v := agent.Config["timeout"].(type) {
	case float64:
		secs = v
	case int:
		secs = float64(v)
	case int64:
		secs = float64(v)
	case string:
		secs, _ = strconv.ParseFloat(strings.TrimSpace(v), 64)
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) || secs <= 0 {
		return s.defaultTimeout
	}
	if secs >= MaxAgentTimeout.Seconds() {
		return MaxAgentTimeout
	}
	return time.Duration(secs * float64(time.Second))
}

func (s *AgentService) observe(agentType, status string, cost float64, elapsed time.Duration) {
	if s.observer != nil {
		s.observer.ObserveChat(agentType, status, cost, elapsed)
	}
}
