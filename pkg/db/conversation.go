// Database models for conversations
package db

import (
	"time"

	"gorm.io/datatypes"
)

// Conversation is one logged exchange with an agent: the request message,
// the optional response or error, and its estimated cost.
type Conversation struct {
	ID               string            `json:"id" gorm:"primaryKey;size:36"`
	UserID           string            `json:"user_id" gorm:"index;size:36;not null"`
	AgentID          string            `json:"agent_id" gorm:"index;size:36;not null"`
	Title            string            `json:"title" gorm:"size:200;default:'New Conversation'"`
	ConversationType string            `json:"conversation_type" gorm:"size:30;default:'custom'"`
	Status           string            `json:"status" gorm:"size:20;default:'active';index"`
	Metadata         datatypes.JSONMap `json:"metadata"`
	Message          string            `json:"message,omitempty" gorm:"type:text"`
	Response         *string           `json:"response,omitempty" gorm:"type:text"`
	ErrorMessage     *string           `json:"error_message,omitempty" gorm:"type:text"`
	Cost             float64           `json:"cost" gorm:"default:0"`
	CreatedAt        time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time         `json:"updated_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// DefaultConversationTitle is used when a conversation is created without one.
const DefaultConversationTitle = "New Conversation"

// Conversation status
const (
	ConversationStatusActive    = "active"
	ConversationStatusCompleted = "completed"
	ConversationStatusArchived  = "archived"
	ConversationStatusFailed    = "failed"
	ConversationStatusPending   = "pending"
)

// Conversation types
const (
	ConversationTypeSupportTicket    = "support_ticket"
	ConversationTypeQATest           = "qa_test"
	ConversationTypeReportGeneration = "report_generation"
	ConversationTypeAdminTask        = "admin_task"
	ConversationTypeCustom           = "custom"
)

var (
	ConversationStatuses = []string{ConversationStatusActive, ConversationStatusCompleted, ConversationStatusArchived, ConversationStatusFailed, ConversationStatusPending}
	ConversationTypes    = []string{ConversationTypeSupportTicket, ConversationTypeQATest, ConversationTypeReportGeneration, ConversationTypeAdminTask, ConversationTypeCustom}
)
