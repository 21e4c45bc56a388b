package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/AAK-MBU/MBU-Egenbefordring/config"
	"github.com/AAK-MBU/MBU-Egenbefordring/model"
	"github.com/AAK-MBU/MBU-Egenbefordring/pkg/logger"
	"github.com/AAK-MBU/MBU-Egenbefordring/robot"
	"github.com/spf13/cobra"
)

var (
	configPath string
	argsJSON   string
	elementID  int64
)

func main() {
	root := &cobra.Command{
		Use:           "egenbefordring",
		Short:         "Robot for the egenbefordring reimbursement flow",
		Long:          "Downloads the expense spreadsheet, dispatches reimbursement queue elements, files outlay tickets and routes the spreadsheet to its destination folder. One stage per invocation; the orchestrator handles scheduling and retries.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to the configuration file")
	root.PersistentFlags().StringVar(&argsJSON, "args", "{}", "process arguments as JSON")

	initializeCmd := &cobra.Command{
		Use:   "initialize",
		Short: "Fetch the spreadsheet and dispatch approved rows to the queue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRobot(cmd.Context(), func(ctx context.Context, r *robot.Robot, args model.ProcessArgs) error {
				return robot.RunStage(ctx, "initialize", func(ctx context.Context) error {
					return r.Initialize(ctx, args)
				})
			})
		},
	}

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Process one queue element",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRobot(cmd.Context(), func(ctx context.Context, r *robot.Robot, _ model.ProcessArgs) error {
				return robot.RunStage(ctx, "process", func(ctx context.Context) error {
					return r.Process(ctx, elementID)
				})
			})
		},
	}
	processCmd.Flags().Int64Var(&elementID, "element", 0, "id of the queue element to process")
	processCmd.MarkFlagRequired("element")

	finalizeCmd := &cobra.Command{
		Use:   "finalize",
		Short: "Route the spreadsheet to its destination folder and notify",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRobot(cmd.Context(), func(ctx context.Context, r *robot.Robot, args model.ProcessArgs) error {
				return robot.RunStage(ctx, "finalize", func(ctx context.Context) error {
					return r.Finalize(ctx, args)
				})
			})
		},
	}

	root.AddCommand(initializeCmd, processCmd, finalizeCmd)

	if err := root.Execute(); err != nil {
		slog.Error("robot failed", "error", err)
		os.Exit(1)
	}
}

// withRobot loads configuration, initializes logging and hands a wired
// robot to the stage function.
func withRobot(ctx context.Context, fn func(context.Context, *robot.Robot, model.ProcessArgs) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	var args model.ProcessArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return fmt.Errorf("parse process arguments: %w", err)
	}

	r, err := robot.New(cfg)
	if err != nil {
		return fmt.Errorf("init robot: %w", err)
	}
	defer r.Close()

	return fn(ctx, r, args)
}
