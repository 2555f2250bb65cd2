package service

import (
	"context"
	"log/slog"
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
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message content cannot be empty")
	ErrInvalidRole          = errors.New("role must be user or assistant")
)

// ConversationService manages conversations and their messages. Every call
// is scoped to the caller: rows owned by someone else behave as missing.
type ConversationService struct {
	db     *gorm.DB
	agents *AgentService
	now    func() time.Time
	logger *slog.Logger
}

func NewConversationService(gdb *gorm.DB, agents *AgentService) *ConversationService {
	return &ConversationService{
		db:     gdb,
		agents: agents,
		now:    func() time.Time { return time.Now().UTC() },
		logger: utils.GetLogger(),
	}
}

// Create opens an active conversation with one of the caller's agents.
func (s *ConversationService) Create(ctx context.Context, userID string, req *models.CreateConversationRequest) (*db.Conversation, error) {
	if _, err := s.agents.Get(ctx, userID, req.AgentID); err != nil {
		return nil, err
	}

	conv := &db.Conversation{
		ID:               uuid.New().String(),
		UserID:           userID,
		AgentID:          req.AgentID,
		Title:            strings.TrimSpace(req.Title),
		ConversationType: req.ConversationType,
		Status:           db.ConversationStatusActive,
		Metadata:         datatypes.JSONMap(req.Metadata),
	}
	if conv.Title == "" {
		conv.Title = db.DefaultConversationTitle
	}
	if conv.ConversationType == "" {
		conv.ConversationType = db.ConversationTypeCustom
	}
	if conv.Metadata == nil {
		conv.Metadata = datatypes.JSONMap{}
	}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, errors.Wrap(err, "create conversation")
	}
	return conv, nil
}

// List returns a page of the caller's conversations, most recently updated
// first, and the total number matching the filter.
func (s *ConversationService) List(ctx context.Context, userID string, f models.ConversationFilter) ([]db.Conversation, int64, error) {
	query := s.db.WithContext(ctx).Model(&db.Conversation{}).Where("user_id = ?", userID)
	if f.AgentID != "" {
		query = query.Where("agent_id = ?", f.AgentID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count conversations")
	}

	convs := []db.Conversation{}
	if err := query.Order("updated_at DESC").Limit(f.Limit).Offset(f.Offset).Find(&convs).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list conversations")
	}
	return convs, total, nil
}

func (s *ConversationService) Get(ctx context.Context, userID, id string) (*db.Conversation, error) {
	var conv db.Conversation
	if err := s.db.WithContext(ctx).First(&conv, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, errors.Wrap(err, "load conversation")
	}
	return &conv, nil
}

func (s *ConversationService) Update(ctx context.Context, userID, id string, req *models.UpdateConversationRequest) (*db.Conversation, error) {
	conv, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Metadata != nil {
		updates["metadata"] = datatypes.JSONMap(req.Metadata)
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(conv).Updates(updates).Error; err != nil {
			return nil, errors.Wrap(err, "update conversation")
		}
	}
	return s.Get(ctx, userID, id)
}

// Complete marks the conversation completed whatever its current status.
func (s *ConversationService) Complete(ctx context.Context, userID, id string) (*db.Conversation, error) {
	status := db.ConversationStatusCompleted
	return s.Update(ctx, userID, id, &models.UpdateConversationRequest{Status: &status})
}

// Delete removes a conversation and its messages.
func (s *ConversationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&db.Message{}).Error; err != nil {
			return errors.Wrap(err, "delete messages")
		}
		if err := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&db.Conversation{}).Error; err != nil {
			return errors.Wrap(err, "delete conversation")
		}
		return nil
	})
}

// ========== Message Management ==========

// AddMessage appends a message and bumps the conversation's updated_at.
// Timestamps within a conversation are strictly increasing.
func (s *ConversationService) AddMessage(ctx context.Context, userID, convID string, req *models.AddMessageRequest) (*db.Message, error) {
	text := req.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	role := req.Role
	if role == "" {
		role = db.RoleUser
	}
	if role != db.RoleUser && role != db.RoleAssistant {
		return nil, ErrInvalidRole
	}

	conv, err := s.Get(ctx, userID, convID)
	if err != nil {
		return nil, err
	}

	ts := s.now().Truncate(time.Microsecond)
	var last db.Message
	err = s.db.WithContext(ctx).Where("conversation_id = ?", convID).Order("timestamp DESC").Limit(1).Find(&last).Error
	if err != nil {
		return nil, errors.Wrap(err, "load last message")
	}
	if last.ID != "" && !ts.After(last.Timestamp) {
		ts = last.Timestamp.Add(time.Microsecond)
	}

	msg := &db.Message{
		ID:             uuid.New().String(),
		ConversationID: convID,
		Role:           role,
		Content:        text,
		Timestamp:      ts,
		Metadata:       datatypes.JSONMap(req.Metadata),
	}
	if msg.Metadata == nil {
		msg.Metadata = datatypes.JSONMap{}
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, errors.Wrap(err, "create message")
	}
	if err := s.db.WithContext(ctx).Model(conv).Update("updated_at", s.now()).Error; err != nil {
		return nil, errors.Wrap(err, "touch conversation")
	}
	return msg, nil
}

// ListMessages returns a page of messages in ascending timestamp order.
func (s *ConversationService) ListMessages(ctx context.Context, userID, convID string, limit, offset int) ([]db.Message, error) {
	if _, err := s.Get(ctx, userID, convID); err != nil {
		return nil, err
	}
	messages := []db.Message{}
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", convID).
		Order("timestamp ASC").
		Limit(limit).Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	return messages, nil
}

// Summary rolls up the caller's conversations created inside the window.
func (s *ConversationService) Summary(ctx context.Context, userID string, w analytics.Window) (*models.ConversationSummary, error) {
	convs := []db.Conversation{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, w.Since(s.now())).
		Find(&convs).Error; err != nil {
		return nil, errors.Wrap(err, "load conversations")
	}

	c := analytics.Count(convs)
	return &models.ConversationSummary{
		Timeframe:              w.Timeframe,
		TotalConversations:     c.Total,
		CompletedConversations: c.Completed,
		FailedConversations:    c.Failed,
		ActiveConversations:    c.Active,
		SuccessRate:            analytics.SuccessRate(c.Completed, c.Total),
		TotalCost:              analytics.Round2(c.TotalCost),
		ConversationsByType:    analytics.CountByType(convs),
		ConversationsByStatus:  analytics.CountByStatus(convs),
		DailyConversations:     analytics.DailyCounts(convs),
	}, nil
}
