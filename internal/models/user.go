package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a team member who submits status reports
type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null"`
	Name        string `gorm:"not null;default:''"`
	TeamID      uint   `gorm:"not null;index"`
	Team        Team   `gorm:"constraint:OnDelete:CASCADE;"`
	Role        string `gorm:"not null;default:'member'"` // enum: 'member' or 'manager'
	LastLoginAt *time.Time

	// Associations
	Reports []Report `gorm:"constraint:OnDelete:CASCADE;"`
}
