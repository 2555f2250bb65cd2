// Database models for agents
package db

import (
	"time"

	"gorm.io/datatypes"
)

// Agent is a user-configured assistant persona. It is a record, not a process.
type Agent struct {
	ID          string            `json:"id" gorm:"primaryKey;size:36"`
	UserID      string            `json:"user_id" gorm:"index;size:36;not null"`
	Name        string            `json:"name" gorm:"size:100;not null"`
	AgentType   string            `json:"agent_type" gorm:"size:30;not null"`
	Description *string           `json:"description" gorm:"type:text"`
	Config      datatypes.JSONMap `json:"config"`
	Status      string            `json:"status" gorm:"size:20;default:'inactive'"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Agent) TableName() string {
	return "agents"
}

// Agent types
const (
	AgentTypeSupport          = "support"
	AgentTypeQA               = "qa"
	AgentTypeReporting        = "reporting"
	AgentTypeVirtualAssistant = "virtual_assistant"
	AgentTypeLeadProspector   = "lead_prospector"
	AgentTypeCustom           = "custom"
)

// Agent status
const (
	AgentStatusInactive    = "inactive"
	AgentStatusActive      = "active"
	AgentStatusTraining    = "training"
	AgentStatusError       = "error"
	AgentStatusMaintenance = "maintenance"
)

var (
	AgentTypes    = []string{AgentTypeSupport, AgentTypeQA, AgentTypeReporting, AgentTypeVirtualAssistant, AgentTypeLeadProspector, AgentTypeCustom}
	AgentStatuses = []string{AgentStatusInactive, AgentStatusActive, AgentStatusTraining, AgentStatusError, AgentStatusMaintenance}
)
