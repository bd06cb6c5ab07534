package main

import (
	"fmt"
	"time"

	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/spf13/cobra"
)

var atFlag string

// dispatchCmd runs the pipeline in-process and prints the per-team outcome.
var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Run the briefing pipeline now",
	Long: `Evaluate every team and generate briefings for the ones that are due.

With --team the schedule is bypassed and only that team is processed.
Windows that another run already generated are skipped.

Examples:
  # Run the hourly evaluation by hand
  briefctl dispatch

  # Force this week's report for team 3
  briefctl dispatch --kind weekly_report --team 3

  # Evaluate as if it were 07:05 UTC
  briefctl dispatch --at 2026-10-16T07:05:00Z`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := parseKind()
		if err != nil {
			return err
		}
		var at time.Time
		if atFlag != "" {
			if at, err = time.Parse(time.RFC3339, atFlag); err != nil {
				return fmt.Errorf("invalid --at: %w", err)
			}
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		summary, err := a.Dispatcher.Run(cmd.Context(), dispatch.RunRequest{
			Kind:         kind,
			Now:          at,
			ForcedTeamID: teamFlag,
		})
		if err != nil {
			return err
		}
		return writeSummary(cmd.OutOrStdout(), summary)
	},
}

// previewCmd prints the first due team's raw briefing without saving it.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print a team's briefing without recording it",
	Long: `Generate the briefing for one team and print the raw text.

Nothing is saved or published and no claim is taken, so previewing never
blocks the scheduled run.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := parseKind()
		if err != nil {
			return err
		}
		if teamFlag == 0 {
			return fmt.Errorf("--team is required")
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		summary, err := a.Dispatcher.Run(cmd.Context(), dispatch.RunRequest{
			Kind:         kind,
			ForcedTeamID: teamFlag,
			Preview:      true,
		})
		if err != nil {
			return err
		}
		return writePreview(cmd.OutOrStdout(), summary)
	},
}

func init() {
	dispatchCmd.Flags().UintVarP(&teamFlag, "team", "t", 0, "force a single team, bypassing its schedule")
	dispatchCmd.Flags().StringVar(&atFlag, "at", "", "evaluation time (RFC3339), defaults to now")
	previewCmd.Flags().UintVarP(&teamFlag, "team", "t", 0, "team to preview")
}
