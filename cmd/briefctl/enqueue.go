package main

import (
	"fmt"

	"github.com/jimdaga/team-pulse/internal/database"
	"github.com/jimdaga/team-pulse/internal/streams"
	"github.com/jimdaga/team-pulse/internal/worker"
	"github.com/spf13/cobra"
)

// enqueueCmd hands a run to the worker instead of running it here.
var enqueueCmd = &cobra.Command{
	Use:   "enqueue",
	Short: "Queue a briefing run for the worker",
	Long: `Queue a forced briefing for one team, or a full dispatch run when
--team is omitted. The worker picks the task up from Redis.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := parseKind()
		if err != nil {
			return err
		}
		cfg, _ := loadConfig()

		if err := worker.InitClient(cfg.RedisURL); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = worker.CloseClient() }()

		var id string
		if teamFlag != 0 {
			id, err = worker.EnqueueForcedBriefing(teamFlag, kind)
		} else {
			id, err = worker.EnqueueDispatch(kind)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "queued %s task %s\n", kind, id)
		return err
	},
}

var groupFlag, consumerFlag string

// tailCmd follows the briefing result stream.
var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow published briefings",
	Long: `Read briefings from the result stream as they are published.

Messages are acknowledged for the consumer group once printed, so two tails
sharing a group split the stream between them.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger := loadConfig()

		consumer, err := streams.NewResultConsumer(cfg.RedisURL, cfg.ResultStream, groupFlag, consumerFlag, logger)
		if err != nil {
			return err
		}
		defer func() { _ = consumer.Close() }()

		err = consumer.ConsumeResults(cmd.Context(), streams.PrintBriefing(cmd.OutOrStdout()))
		if cmd.Context().Err() != nil {
			return nil
		}
		return err
	},
}

var downFlag bool

// migrateCmd applies or reverts the schema without starting the pipeline.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _ := loadConfig()
		db, err := database.Init(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = database.Close(db) }()

		if downFlag {
			if err := database.RollbackMigrations(db); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
			return err
		}
		if err := database.RunMigrations(db); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return err
	},
}

func init() {
	enqueueCmd.Flags().UintVarP(&teamFlag, "team", "t", 0, "force a single team")
	tailCmd.Flags().StringVar(&groupFlag, "group", streams.GroupBriefctl, "consumer group")
	tailCmd.Flags().StringVar(&consumerFlag, "consumer", "briefctl-1", "consumer name within the group")
	migrateCmd.Flags().BoolVar(&downFlag, "down", false, "revert every migration (postgres only)")
}
