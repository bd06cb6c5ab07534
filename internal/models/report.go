package models

import (
	"gorm.io/gorm"
)

// Sentiment values, ordered by severity
const (
	SentimentGreen  = "green"
	SentimentYellow = "yellow"
	SentimentRed    = "red"
)

// Plan item type and status values
const (
	PlanItemCompletedPrevious = "completed_previous"
	PlanItemPlannedNext       = "planned_next"

	PlanItemStatusTodo        = "todo"
	PlanItemStatusDone        = "done"
	PlanItemStatusCarriedOver = "carried_over"
)

// Report is one person's status update for one team-local calendar day
type Report struct {
	gorm.Model
	TeamID    uint   `gorm:"not null;index:idx_reports_team_date"`
	Team      Team   `gorm:"constraint:OnDelete:CASCADE;"`
	UserID    uint   `gorm:"not null;index"`
	User      User   `gorm:"constraint:OnDelete:CASCADE;"`
	Date      string `gorm:"type:varchar(10);not null;index:idx_reports_team_date"` // YYYY-MM-DD, team-local
	Sentiment string `gorm:"not null;default:'green'"`
	Blockers  string `gorm:"type:text"`

	PlanItems []PlanItem `gorm:"constraint:OnDelete:CASCADE;"`
}

// PlanItem is a single completed or planned line of a report
type PlanItem struct {
	gorm.Model
	ReportID uint   `gorm:"not null;index"`
	Content  string `gorm:"type:text;not null"`
	Type     string `gorm:"not null"`
	Status   string `gorm:"not null;default:'todo'"`
	Position int    `gorm:"not null;default:0"`
}
