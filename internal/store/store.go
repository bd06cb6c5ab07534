// Package store reads teams and reports from the relational database and
// persists generated briefings.
package store

import (
	"context"
	"fmt"

	"github.com/jimdaga/team-pulse/internal/digest"
	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/jimdaga/team-pulse/internal/models"
	"github.com/jimdaga/team-pulse/internal/schedule"
	"gorm.io/gorm"
)

// FetchError reports a failed read for one team.
type FetchError struct {
	Op     string
	TeamID uint
	Err    error
}

func (e *FetchError) Error() string {
	if e.TeamID > 0 {
		return fmt.Sprintf("%s for team %d: %v", e.Op, e.TeamID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// GormStore implements the dispatcher's DataStore and Recorder on GORM.
type GormStore struct {
	db *gorm.DB
}

var (
	_ dispatch.DataStore = (*GormStore)(nil)
	_ dispatch.Recorder  = (*GormStore)(nil)
)

// New creates a GormStore.
func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Teams returns every team with its raw settings, ordered by id.
func (s *GormStore) Teams(ctx context.Context) ([]dispatch.Team, error) {
	var rows []models.Team
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, &FetchError{Op: "list teams", Err: err}
	}

	teams := make([]dispatch.Team, 0, len(rows))
	for _, t := range rows {
		teams = append(teams, dispatch.Team{
			ID:       t.ID,
			Name:     t.Name,
			Timezone: t.Timezone,
			Settings: []byte(t.Settings),
		})
	}
	return teams, nil
}

// Reports returns the team's reports dated inside window, with plan items and
// the author's display name, ordered by date then insertion.
func (s *GormStore) Reports(ctx context.Context, teamID uint, window schedule.Window) ([]digest.Record, error) {
	var rows []models.Report
	err := s.db.WithContext(ctx).
		Preload("PlanItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("User").
		Where("team_id = ? AND date BETWEEN ? AND ?", teamID, window.StartDate(), window.EndDate()).
		Order("date ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, &FetchError{Op: "list reports", TeamID: teamID, Err: err}
	}

	records := make([]digest.Record, 0, len(rows))
	for _, r := range rows {
		items := make([]digest.PlanItem, 0, len(r.PlanItems))
		for _, it := range r.PlanItems {
			items = append(items, digest.PlanItem{
				Content: it.Content,
				Type:    digest.ItemType(it.Type),
				Status:  digest.ItemStatus(it.Status),
			})
		}
		records = append(records, digest.Record{
			ID:         r.ID,
			TeamID:     r.TeamID,
			UserID:     r.UserID,
			AuthorName: r.User.Name,
			Date:       r.Date,
			Sentiment:  digest.Sentiment(r.Sentiment),
			Blockers:   r.Blockers,
			Items:      items,
		})
	}
	return records, nil
}

// RecordBriefing persists a generated briefing.
func (s *GormStore) RecordBriefing(ctx context.Context, result dispatch.Result) error {
	briefing := models.Briefing{
		TeamID:      result.TeamID,
		RunID:       result.RunID,
		Kind:        string(result.Kind),
		WindowStart: result.WindowStart,
		WindowEnd:   result.WindowEnd,
		Outcome:     string(result.Outcome),
		Content:     result.Text,
		GeneratedAt: result.GeneratedAt,
	}
	if err := s.db.WithContext(ctx).Create(&briefing).Error; err != nil {
		return fmt.Errorf("failed to save briefing: %w", err)
	}
	return nil
}

// LatestBriefing returns the most recent briefing of kind for a team.
func (s *GormStore) LatestBriefing(ctx context.Context, teamID uint, kind dispatch.Kind) (*models.Briefing, error) {
	var b models.Briefing
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND kind = ?", teamID, string(kind)).
		Order("generated_at DESC, id DESC").
		First(&b).Error
	if err != nil {
		return nil, &FetchError{Op: "latest briefing", TeamID: teamID, Err: err}
	}
	return &b, nil
}
