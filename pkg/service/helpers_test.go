package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/agentsynergy/agentsynergy/pkg/cache"
	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/db/dbtest"
)

func newAuthService(t *testing.T, gdb *gorm.DB) *AuthService {
	t.Helper()
	svc := NewAuthService(gdb, cache.NewMemoryStore(), AuthOptions{
		SecretKey:      "test-secret",
		AccessTokenTTL: 30 * time.Minute,
	})
	svc.bcryptCost = bcrypt.MinCost
	return svc
}

func createUser(t *testing.T, gdb *gorm.DB, email string) *db.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &db.User{ID: uuid.New().String(), Email: email, HashedPassword: string(hash), IsActive: true}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func createAgent(t *testing.T, gdb *gorm.DB, userID string, config map[string]interface{}) *db.Agent {
	t.Helper()
	a := &db.Agent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      "Helper",
		AgentType: db.AgentTypeSupport,
		Config:    datatypes.JSONMap(config),
		Status:    db.AgentStatusInactive,
	}
	require.NoError(t, gdb.Create(a).Error)
	return a
}

func insertConversation(t *testing.T, gdb *gorm.DB, userID, agentID, status string, created time.Time, cost float64) *db.Conversation {
	t.Helper()
	c := &db.Conversation{
		ID:               uuid.New().String(),
		UserID:           userID,
		AgentID:          agentID,
		Title:            db.DefaultConversationTitle,
		ConversationType: db.ConversationTypeSupportTicket,
		Status:           status,
		Metadata:         datatypes.JSONMap{},
		Cost:             cost,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
	require.NoError(t, gdb.Create(c).Error)
	return c
}

type fixture struct {
	db            *gorm.DB
	agents        *AgentService
	conversations *ConversationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	agents := NewAgentService(gdb, nil, time.Minute)
	return &fixture{db: gdb, agents: agents, conversations: NewConversationService(gdb, agents)}
}

var bg = context.Background()
