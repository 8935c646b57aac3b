// Package orchestration runs the catalog sync on Temporal: a workflow that
// copies scored hub models into the models table so the database tier stays
// warm for when the hub is unreachable.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/catalog"
	"github.com/infralens/api/internal/models"
)

const (
	CatalogSyncTaskQueue  = "catalog-sync"
	CatalogSyncScheduleID = "catalog-sync-hourly"

	syncActivityTimeout = 2 * time.Minute
)

// CatalogSyncInput selects the tasks to refresh; empty means all.
type CatalogSyncInput struct {
	Tasks []models.TaskType `json:"tasks,omitempty"`
}

// CatalogSyncResult reports rows written per task and tasks that failed.
type CatalogSyncResult struct {
	Synced map[models.TaskType]int `json:"synced"`
	Failed []models.TaskType       `json:"failed,omitempty"`
}

// SyncActivities holds the dependencies of the sync activities.
type SyncActivities struct {
	Hub    catalog.HubFetcher
	Store  catalog.ModelStore
	Static *catalog.StaticCatalog
	Logger *zap.Logger
}

// SyncTask fetches one task from the hub and upserts it with the task's
// curated warning model.
func (a *SyncActivities) SyncTask(ctx context.Context, task models.TaskType) (int, error) {
	list, err := a.Hub.FetchTask(ctx, task)
	if errors.Is(err, catalog.ErrNoPipeline) {
		return 0, temporal.NewNonRetryableApplicationError(err.Error(), "NoPipeline", err)
	}
	if err != nil {
		return 0, fmt.Errorf("fetch %s from hub: %w", task, err)
	}
	if len(list) == 0 {
		return 0, nil
	}

	if a.Static != nil {
		if w, ok := a.Static.Warning(task); ok {
			list = append(list, w)
		}
	}

	if err := a.Store.UpsertModels(ctx, task, list); err != nil {
		return 0, fmt.Errorf("upsert %s models: %w", task, err)
	}

	activity.GetLogger(ctx).Info("catalog task synced", "task", string(task), "models", len(list))
	return len(list), nil
}

// CatalogSyncWorkflow syncs each task in turn. A failing task is recorded
// and does not stop the others.
func CatalogSyncWorkflow(ctx workflow.Context, in CatalogSyncInput) (CatalogSyncResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: syncActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    5 * time.Second,
			BackoffCoefficient: 2,
			MaximumAttempts:    3,
		},
	})

	tasks := in.Tasks
	if len(tasks) == 0 {
		tasks = models.TaskTypes
	}

	var a *SyncActivities
	result := CatalogSyncResult{Synced: make(map[models.TaskType]int, len(tasks))}
	for _, task := range tasks {
		var n int
		if err := workflow.ExecuteActivity(ctx, a.SyncTask, task).Get(ctx, &n); err != nil {
			workflow.GetLogger(ctx).Warn("catalog task sync failed", "task", string(task), "error", err)
			result.Failed = append(result.Failed, task)
			continue
		}
		result.Synced[task] = n
	}

	if len(result.Failed) == len(tasks) {
		return result, temporal.NewApplicationError("every catalog task failed to sync", "SyncFailed")
	}
	return result, nil
}

// NewCatalogSyncWorker registers the workflow and activities on the
// catalog-sync task queue.
func NewCatalogSyncWorker(c client.Client, acts *SyncActivities) worker.Worker {
	w := worker.New(c, CatalogSyncTaskQueue, worker.Options{})
	w.RegisterWorkflow(CatalogSyncWorkflow)
	w.RegisterActivity(acts)
	return w
}

// EnsureCatalogSchedule creates the recurring sync schedule unless it exists.
func EnsureCatalogSchedule(ctx context.Context, c client.Client, every time.Duration, logger *zap.Logger) error {
	_, err := c.ScheduleClient().Create(ctx, client.ScheduleOptions{
		ID: CatalogSyncScheduleID,
		Spec: client.ScheduleSpec{
			Intervals: []client.ScheduleIntervalSpec{{Every: every}},
		},
		Action: &client.ScheduleWorkflowAction{
			ID:        "catalog-sync",
			Workflow:  CatalogSyncWorkflow,
			Args:      []interface{}{CatalogSyncInput{}},
			TaskQueue: CatalogSyncTaskQueue,
		},
	})
	if errors.Is(err, temporal.ErrScheduleAlreadyRunning) {
		logger.Info("catalog sync schedule already exists", zap.String("schedule_id", CatalogSyncScheduleID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("create catalog sync schedule: %w", err)
	}
	logger.Info("catalog sync schedule created", zap.Duration("every", every))
	return nil
}

// RunCatalogSync starts one sync immediately and waits for it.
func RunCatalogSync(ctx context.Context, c client.Client, in CatalogSyncInput) (CatalogSyncResult, error) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        fmt.Sprintf("catalog-sync-manual-%d", time.Now().Unix()),
		TaskQueue: CatalogSyncTaskQueue,
	}, CatalogSyncWorkflow, in)
	if err != nil {
		return CatalogSyncResult{}, fmt.Errorf("start catalog sync: %w", err)
	}

	var result CatalogSyncResult
	if err := run.Get(ctx, &result); err != nil {
		return result, fmt.Errorf("catalog sync: %w", err)
	}
	return result, nil
}
