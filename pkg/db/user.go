// Database models for accounts
package db

import "time"

// User is an account that owns agents, conversations and integrations.
type User struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	Email          string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	HashedPassword string     `json:"-" gorm:"size:255;not null"`
	CompanyName    *string    `json:"company_name" gorm:"size:255"`
	CompanySize    *string    `json:"company_size" gorm:"size:50"`
	FirstName      *string    `json:"first_name" gorm:"size:100"`
	LastName       *string    `json:"last_name" gorm:"size:100"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	IsVerified     bool       `json:"is_verified" gorm:"default:false"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastLogin      *time.Time `json:"last_login"`
}

func (User) TableName() string {
	return "users"
}
