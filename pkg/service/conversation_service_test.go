package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentsynergy/agentsynergy/pkg/analytics"
	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/models"
)

func TestConversation_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner@example.com")
	agent := createAgent(t, f.db, owner.ID, nil)

	conv, err := f.conversations.Create(bg, owner.ID, &models.CreateConversationRequest{AgentID: agent.ID})
	require.NoError(t, err)
	assert.Equal(t, db.DefaultConversationTitle, conv.Title)
	assert.Equal(t, db.ConversationTypeCustom, conv.ConversationType)
	assert.Equal(t, db.ConversationStatusActive, conv.Status)

	intruder := createUser(t, f.db, "intruder@example.com")
	_, err = f.conversations.Create(bg, intruder.ID, &models.CreateConversationRequest{AgentID: agent.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	_, err = f.conversations.Create(bg, owner.ID, &models.CreateConversationRequest{AgentID: "missing"})
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestConversation_MessagesAscending(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner@example.com")
	agent := createAgent(t, f.db, owner.ID, nil)

	conv, err := f.conversations.Create(bg, owner.ID, &models.CreateConversationRequest{
		AgentID: agent.ID, ConversationType: db.ConversationTypeSupportTicket,
	})
	require.NoError(t, err)

	// Both messages get the same clock reading.
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	f.conversations.now = func() time.Time { return fixed }

	_, err = f.conversations.AddMessage(bg, owner.ID, conv.ID, &models.AddMessageRequest{Message: "Hello"})
	require.NoError(t, err)
	_, err = f.conversations.AddMessage(bg, owner.ID, conv.ID, &models.AddMessageRequest{Role: db.RoleAssistant, Content: "Hi there"})
	require.NoError(t, err)

	msgs, err := f.conversations.ListMessages(bg, owner.ID, conv.ID, 100, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Hello", msgs[0].Content)
	assert.Equal(t, db.RoleUser, msgs[0].Role)
	assert.Equal(t, "Hi there", msgs[1].Content)
	assert.Equal(t, db.RoleAssistant, msgs[1].Role)
	assert.True(t, msgs[1].Timestamp.After(msgs[0].Timestamp))

	page, err := f.conversations.ListMessages(bg, owner.ID, conv.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Hi there", page[0].Content)

	touched, err := f.conversations.Get(bg, owner.ID, conv.ID)
	require.NoError(t, err)
	assert.True(t, touched.UpdatedAt.Equal(fixed))
}

func TestConversation_AddMessageRejects(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner@example.com")
	intruder := createUser(t, f.db, "intruder@example.com")
	agent := createAgent(t, f.db, owner.ID, nil)
	conv, err := f.conversations.Create(bg, owner.ID, &models.CreateConversationRequest{AgentID: agent.ID})
	require.NoError(t, err)

	_, err = f.conversations.AddMessage(bg, owner.ID, conv.ID, &models.AddMessageRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = f.conversations.AddMessage(bg, owner.ID, conv.ID, &models.AddMessageRequest{Role: "system", Message: "x"})
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = f.conversations.AddMessage(bg, intruder.ID, conv.ID, &models.AddMessageRequest{Message: "x"})
	assert.ErrorIs(t, err, ErrConversationNotFound)
	_, err = f.conversations.ListMessages(bg, intruder.ID, conv.ID, 100, 0)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversation_Delete(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner@example.com")
	intruder := createUser(t, f.db, "intruder@example.com")
	agent := createAgent(t, f.db, owner.ID, nil)
	conv, err := f.conversations.Create(bg, owner.ID, &models.CreateConversationRequest{AgentID: agent.ID})
	require.NoError(t, err)
	_, err = f.conversations.AddMessage(bg, owner.ID, conv.ID, &models.AddMessageRequest{Message: "Hello"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.conversations.Delete(bg, intruder.ID, conv.ID), ErrConversationNotFound)
	_, err = f.conversations.Get(bg, owner.ID, conv.ID)
	require.NoError(t, err, "foreign delete must be a no-op")

	require.NoError(t, f.conversations.Delete(bg, owner.ID, conv.ID))
	_, err = f.conversations.Get(bg, owner.ID, conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	var remaining int64
	require.NoError(t, f.db.Model(&db.Message{}).Where("conversation_id = ?", conv.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestConversation_ListFilters(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner@example.com")
	other := createUser(t, f.db, "other@example.com")
	a1 := createAgent(t, f.db, owner.ID, nil)
	a2 := createAgent(t, f.db, owner.ID, nil)
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	insertConversation(t, f.db, owner.ID, a1.ID, db.ConversationStatusCompleted, base, 0)
	insertConversation(t, f.db, owner.ID, a1.ID, db.ConversationStatusActive, base.Add(time.Hour), 0)
	newest := insertConversation(t, f.db, owner.ID, a2.ID, db.ConversationStatusCompleted, base.Add(2*time.Hour), 0)
	insertConversation(t, f.db, other.ID, createAgent(t, f.db, other.ID, nil).ID, db.ConversationStatusCompleted, base, 0)

	all, total, err := f.conversations.List(bg, owner.ID, models.ConversationFilter{Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)

	byAgent, total, err := f.conversations.List(bg, owner.ID, models.ConversationFilter{AgentID: a1.ID, Limit: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, byAgent, 2)

	completed, _, err := f.conversations.List(bg, owner.ID, models.ConversationFilter{Status: db.ConversationStatusCompleted, Limit: 50})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	page, total, err := f.conversations.List(bg, owner.ID, models.ConversationFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

func TestConversation_UpdateAndComplete(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner@example.com")
	agent := createAgent(t, f.db, owner.ID, nil)
	conv := insertConversation(t, f.db, owner.ID, agent.ID, db.ConversationStatusFailed, time.Now().UTC(), 0)

	title := "Escalation"
	updated, err := f.conversations.Update(bg, owner.ID, conv.ID, &models.UpdateConversationRequest{
		Title: &title, Metadata: map[string]interface{}{"priority": "high"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Escalation", updated.Title)
	assert.Equal(t, "high", updated.Metadata["priority"])
	assert.Equal(t, db.ConversationStatusFailed, updated.Status)

	done, err := f.conversations.Complete(bg, owner.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, db.ConversationStatusCompleted, done.Status)

	_, err = f.conversations.Complete(bg, "someone-else", conv.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversation_Summary(t *testing.T) {
	f := newFixture(t)
	owner := createUser(t, f.db, "owner@example.com")
	agent := createAgent(t, f.db, owner.ID, nil)
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	f.conversations.now = func() time.Time { return now }

	insertConversation(t, f.db, owner.ID, agent.ID, db.ConversationStatusCompleted, now.Add(-time.Hour), 0.02)
	insertConversation(t, f.db, owner.ID, agent.ID, db.ConversationStatusFailed, now.Add(-48*time.Hour), 0)
	insertConversation(t, f.db, owner.ID, agent.ID, db.ConversationStatusCompleted, now.AddDate(0, 0, -20), 1)

	w, err := analytics.ParseWindow("week", "", 7)
	require.NoError(t, err)
	sum, err := f.conversations.Summary(bg, owner.ID, w)
	require.NoError(t, err)
	assert.Equal(t, "week", sum.Timeframe)
	assert.Equal(t, 2, sum.TotalConversations)
	assert.Equal(t, 1, sum.CompletedConversations)
	assert.Equal(t, 1, sum.FailedConversations)
	assert.Equal(t, 50.0, sum.SuccessRate)
	assert.Equal(t, 0.02, sum.TotalCost)
	assert.Equal(t, map[string]int{db.ConversationTypeSupportTicket: 2}, sum.ConversationsByType)
	assert.Equal(t, map[string]int{"2026-06-10": 1, "2026-06-08": 1}, sum.DailyConversations)
}
