package models

import (
	"time"

	"gorm.io/gorm"
)

// Briefing kinds
const (
	BriefingKindDaily  = "daily_briefing"
	BriefingKindWeekly = "weekly_report"
)

// Briefing is a generated team briefing for one window
type Briefing struct {
	gorm.Model
	TeamID      uint   `gorm:"not null;index"`
	Team        Team   `gorm:"constraint:OnDelete:CASCADE;"`
	RunID       string `gorm:"not null;index"`
	Kind        string `gorm:"not null;index"`
	WindowStart string `gorm:"type:varchar(10);not null"`
	WindowEnd   string `gorm:"type:varchar(10);not null"`
	Outcome     string `gorm:"not null;index"`
	Content     string `gorm:"type:text"`
	GeneratedAt time.Time
	ReadAt      *time.Time
}
