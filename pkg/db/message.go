// Database models for conversation messages
package db

import (
	"time"

	"gorm.io/datatypes"
)

// Message is a single turn appended to a conversation. Rows are never updated.
type Message struct {
	ID             string            `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string            `json:"conversation_id" gorm:"index;size:36;not null"`
	Role           string            `json:"role" gorm:"size:20;not null"` // user, assistant
	Content        string            `json:"content" gorm:"type:text;not null"`
	Timestamp      time.Time         `json:"timestamp" gorm:"index"`
	Metadata       datatypes.JSONMap `json:"metadata"`

	Conversation *Conversation `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (*Message) TableName() string {
	return "conversation_messages"
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
