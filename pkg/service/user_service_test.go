package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/models"
)

func TestUser_UpdateLeavesNilFields(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.db)
	user := createUser(t, f.db, "owner@example.com")

	company, first := "Acme", "Ada"
	updated, err := svc.Update(bg, user.ID, &models.UpdateUserRequest{CompanyName: &company, FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, updated.CompanyName)
	assert.Equal(t, "Acme", *updated.CompanyName)

	last := "Lovelace"
	updated, err = svc.Update(bg, user.ID, &models.UpdateUserRequest{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Acme", *updated.CompanyName)
	assert.Equal(t, "Ada", *updated.FirstName)
	assert.Equal(t, "Lovelace", *updated.LastName)

	_, err = svc.Update(bg, "missing", &models.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUser_DeleteRemovesOwnedRows(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.db)
	user := createUser(t, f.db, "owner@example.com")
	keep := createUser(t, f.db, "keep@example.com")
	agent := createAgent(t, f.db, user.ID, nil)
	keptAgent := createAgent(t, f.db, keep.ID, nil)
	conv, err := f.conversations.Create(bg, user.ID, &models.CreateConversationRequest{AgentID: agent.ID})
	require.NoError(t, err)
	_, err = f.conversations.AddMessage(bg, user.ID, conv.ID, &models.AddMessageRequest{Message: "Hello"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(bg, user.ID))

	_, err = svc.Get(bg, user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	for _, model := range []interface{}{&db.Agent{}, &db.Conversation{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Where("user_id = ?", user.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
	var msgs int64
	require.NoError(t, f.db.Model(&db.Message{}).Count(&msgs).Error)
	assert.Zero(t, msgs)

	_, err = f.agents.Get(bg, keep.ID, keptAgent.ID)
	assert.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(bg, user.ID), ErrUserNotFound)
}
