package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jimdaga/team-pulse/internal/app"
	"github.com/jimdaga/team-pulse/internal/config"
	"github.com/jimdaga/team-pulse/internal/dispatch"
	"github.com/jimdaga/team-pulse/internal/worker"
	"github.com/spf13/cobra"
)

// Set by the release build.
var version = "dev"

// Flags shared by several commands.
var (
	kindFlag string
	teamFlag uint
)

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:           "briefctl",
	Short:         "Run and inspect team briefings.",
	Long:          `briefctl triggers the briefing pipeline by hand, previews a team's briefing, queues work for the worker and follows published briefings.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&kindFlag, "kind", "k", string(dispatch.KindDailyBriefing), "briefing kind: daily_briefing or weekly_report")
	rootCmd.AddCommand(dispatchCmd, previewCmd, enqueueCmd, tailCmd, migrateCmd)
}

// loadConfig reads the environment and builds a stderr logger.
func loadConfig() (*config.Config, *slog.Logger) {
	cfg := config.Load()
	return cfg, worker.NewLoggerTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// buildApp wires the full pipeline for commands that run it in-process.
func buildApp() (*app.App, error) {
	cfg, logger := loadConfig()
	return app.Build(cfg, logger)
}

func parseKind() (dispatch.Kind, error) {
	kind, ok := dispatch.ParseKind(kindFlag)
	if !ok {
		return "", fmt.Errorf("unknown kind %q (want %s or %s)", kindFlag, dispatch.KindDailyBriefing, dispatch.KindWeeklyReport)
	}
	return kind, nil
}
