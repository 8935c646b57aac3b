package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infralens/api/internal/models"
)

// PostgresWriter inserts events into analytics_events.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(pool *pgxpool.Pool) *PostgresWriter {
	return &PostgresWriter{pool: pool}
}

func (w *PostgresWriter) InsertEvent(ctx context.Context, e models.AnalyticsEvent) error {
	query := `
		INSERT INTO analytics_events (
			id, user_id, session_id, task_type, gpu_memory, inference_device, max_latency,
			license_type, inference_framework, quantization, deployment_target,
			had_use_case_description, primary_model_id, alternative_model_ids,
			warning_model_id, used_llm_reranking, response_time_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	alternatives := e.AlternativeModelIDs
	if alternatives == nil {
		alternatives = []string{}
	}
	_, err := w.pool.Exec(ctx, query,
		e.ID, nullable(e.UserID), nullable(e.SessionID), e.TaskType, e.GPUMemory, e.InferenceDevice,
		e.MaxLatency, e.LicenseType, nullable(e.InferenceFramework), nullable(e.Quantization),
		nullable(e.DeploymentTarget), e.HadUseCaseDescription, nullable(e.PrimaryModelID),
		alternatives, nullable(e.WarningModelID), e.UsedLLMReranking, e.ResponseTimeMs, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
