package db_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/agentsynergy/agentsynergy/pkg/db"
	"github.com/agentsynergy/agentsynergy/pkg/db/dbtest"
)

func TestOwnedRowsNeedAnExistingUser(t *testing.T) {
	gdb := dbtest.New(t)

	err := gdb.Create(&db.Agent{ID: "a1", UserID: "ghost", Name: "x", AgentType: db.AgentTypeQA}).Error
	assert.Error(t, err)
	err = gdb.Create(&db.Integration{ID: "i1", UserID: "ghost", Platform: "slack", Config: datatypes.JSONMap{}}).Error
	assert.Error(t, err)
}

func TestDeletingUserCascades(t *testing.T) {
	gdb := dbtest.New(t)

	require.NoError(t, gdb.Create(&db.User{ID: "u1", Email: "u1@example.com", HashedPassword: "x", IsActive: true}).Error)
	require.NoError(t, gdb.Create(&db.Agent{ID: "a1", UserID: "u1", Name: "x", AgentType: db.AgentTypeQA}).Error)
	require.NoError(t, gdb.Create(&db.Conversation{ID: "c1", UserID: "u1", AgentID: "a1"}).Error)
	require.NoError(t, gdb.Create(&db.Message{ID: "m1", ConversationID: "c1", Role: db.RoleUser, Content: "hi"}).Error)
	require.NoError(t, gdb.Create(&db.Integration{ID: "i1", UserID: "u1", Platform: "slack", Config: datatypes.JSONMap{}}).Error)

	require.NoError(t, gdb.Exec("DELETE FROM users WHERE id = ?", "u1").Error)

	for _, model := range []interface{}{&db.Agent{}, &db.Conversation{}, &db.Message{}, &db.Integration{}} {
		var n int64
		require.NoError(t, gdb.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}
}
