package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jimdaga/team-pulse/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const devTeamName = "Platform (dev)"

type devMember struct {
	email, name, role string
	sentiments        [7]string
}

var devMembers = []devMember{
	{"lead@teampulse.local", "Dana Lead", "manager",
		[7]string{"green", "green", "yellow", "green", "green", "green", "green"}},
	{"ana@teampulse.local", "Ana Builder", "member",
		[7]string{"green", "yellow", "yellow", "red", "yellow", "green", "green"}},
	{"sam@teampulse.local", "Sam Operator", "member",
		[7]string{"green", "green", "green", "green", "red", "yellow", "green"}},
}

var devWork = []struct{ done, next, blocker string }{
	{"Merged the login retry fix", "Draft the billing migration", ""},
	{"Drafted the billing migration", "Review the migration with DBAs", "Waiting on staging credentials"},
	{"Paired on flaky CI job", "Roll out the cache warmup", ""},
	{"Rolled out cache warmup to canary", "Promote cache warmup", "Canary alerts are noisy"},
	{"Closed three support tickets", "Write the incident retro", ""},
	{"Wrote the incident retro", "Start load test plan", ""},
	{"Set up load test harness", "Run the first load test", ""},
}

// SeedDevData populates the database with a development team, its members
// and a week of reports ending yesterday.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	return seedDevData(db, time.Now())
}

func seedDevData(db *gorm.DB, now time.Time) error {
	var existing models.Team
	if err := db.Where("name = ?", devTeamName).First(&existing).Error; err == nil {
		slog.Info("Seed data already exists, skipping")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		team := models.Team{
			Name:     devTeamName,
			Timezone: "America/Chicago",
			Settings: datatypes.JSON(`{"version":1,"weeklyReport":{"day":"Friday","time":"16:00"},"morningBriefing":{"enabled":true,"time":"08:00"}}`),
		}
		if err := tx.Create(&team).Error; err != nil {
			return fmt.Errorf("failed to seed team: %w", err)
		}

		loc, err := time.LoadLocation(team.Timezone)
		if err != nil {
			loc = time.UTC
		}
		today := now.In(loc)

		reports := 0
		for _, m := range devMembers {
			user := models.User{Email: m.email, Name: m.name, Role: m.role, TeamID: team.ID}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", m.email, err)
			}

			for i := 0; i < 7; i++ {
				day := today.AddDate(0, 0, -(7 - i))
				work := devWork[(i+reports)%len(devWork)]
				report := models.Report{
					TeamID:    team.ID,
					UserID:    user.ID,
					Date:      day.Format("2006-01-02"),
					Sentiment: m.sentiments[i],
					Blockers:  work.blocker,
					PlanItems: []models.PlanItem{
						{Content: work.done, Type: models.PlanItemCompletedPrevious, Status: models.PlanItemStatusDone, Position: 0},
						{Content: work.next, Type: models.PlanItemPlannedNext, Status: models.PlanItemStatusTodo, Position: 1},
					},
				}
				if err := tx.Create(&report).Error; err != nil {
					return fmt.Errorf("failed to seed report: %w", err)
				}
				reports++
			}
		}

		slog.Info("Seeded dev data", "team", team.Name, "users", len(devMembers), "reports", reports)
		return nil
	})
}
