package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/config"
	"github.com/infralens/api/internal/models"
	"github.com/infralens/api/internal/orchestration"
)

var errTemporalUnavailable = errors.New("temporal is not reachable")

func newWorkerCommand() *cobra.Command {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the catalog sync worker",
		Long: `Run the Temporal worker that copies hub listings into the models table.

The worker also creates the recurring sync schedule if it does not exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			b, closeBackends := connectBackends(cfg, backendSet{postgres: true, temporal: true}, logger)
			defer closeBackends()
			if b.temporal == nil {
				return errTemporalUnavailable
			}
			if b.db == nil {
				return errors.New("catalog sync needs the database")
			}

			parts, err := buildCatalog(cfg, b, catalogOptions{}, logger)
			if err != nil {
				return err
			}

			w := orchestration.NewCatalogSyncWorker(b.temporal, &orchestration.SyncActivities{
				Hub:    parts.hub,
				Store:  parts.store,
				Static: parts.static,
				Logger: logger,
			})
			if every > 0 {
				if err := orchestration.EnsureCatalogSchedule(cmd.Context(), b.temporal, every, logger); err != nil {
					return err
				}
			}

			logger.Info("catalog sync worker started", zap.String("task_queue", orchestration.CatalogSyncTaskQueue))
			return w.Run(worker.InterruptCh())
		},
	}

	cmd.Flags().DurationVar(&every, "every", 6*time.Hour, "Sync schedule interval; 0 skips creating the schedule")

	return cmd
}

func newSyncCommand() *cobra.Command {
	var tasks []string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one catalog sync now and wait for it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := orchestration.CatalogSyncInput{}
			for _, t := range tasks {
				task := models.TaskType(t)
				if !knownTask(task) {
					return fmt.Errorf("unknown task %q: must be one of %s", t, taskList())
				}
				in.Tasks = append(in.Tasks, task)
			}

			cfg := config.Load()
			logger, err := newCLILogger()
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			b, closeBackends := connectBackends(cfg, backendSet{temporal: true}, logger)
			defer closeBackends()
			if b.temporal == nil {
				return errTemporalUnavailable
			}

			res, err := orchestration.RunCatalogSync(cmd.Context(), b.temporal, in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, task := range models.TaskTypes {
				if n, ok := res.Synced[task]; ok {
					fmt.Fprintf(out, "%-20s %d models\n", task, n)
				}
			}
			for _, task := range res.Failed {
				fmt.Fprintf(out, "%-20s failed\n", task)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tasks, "task", nil, "Tasks to sync (default: all with a hub pipeline)")

	return cmd
}

func knownTask(task models.TaskType) bool {
	for _, t := range models.TaskTypes {
		if t == task {
			return true
		}
	}
	return false
}
