package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Team is a tenant: its members, reports and schedule are isolated from other teams
type Team struct {
	gorm.Model
	Name     string         `gorm:"not null"`
	Timezone string         `gorm:"not null;default:'UTC'"`
	Settings datatypes.JSON `gorm:"type:jsonb"` // schedule settings, see internal/settings

	// Associations
	Reports   []Report   `gorm:"constraint:OnDelete:CASCADE;"`
	Briefings []Briefing `gorm:"constraint:OnDelete:CASCADE;"`
}
