// Database models for third-party integrations
package db

import (
	"time"

	"gorm.io/datatypes"
)

// Integration stores the connection settings for one platform. There is at
// most one row per (user, platform).
type Integration struct {
	ID        string            `json:"id" gorm:"primaryKey;size:36"`
	UserID    string            `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_integrations_user_platform"`
	Platform  string            `json:"platform" gorm:"size:30;not null;uniqueIndex:idx_integrations_user_platform"`
	Config    datatypes.JSONMap `json:"config"`
	Status    string            `json:"status" gorm:"size:20;default:'inactive'"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Integration) TableName() string {
	return "integrations"
}

// Platforms
const (
	PlatformSlack        = "slack"
	PlatformGoogleSheets = "google_sheets"
	PlatformJira         = "jira"
)

// Integration status
const (
	IntegrationStatusActive   = "active"
	IntegrationStatusInactive = "inactive"
	IntegrationStatusError    = "error"
)

var Platforms = []string{PlatformSlack, PlatformGoogleSheets, PlatformJira}
