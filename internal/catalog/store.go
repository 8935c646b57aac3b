package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/models"
)

// TierStore is the name reported by the database tier.
const TierStore = "database"

// ModelStore reads and writes the models table.
type ModelStore interface {
	ModelsForQuery(ctx context.Context, q Query) ([]models.ModelRecommendation, error)
	ActiveModels(ctx context.Context) ([]models.ModelRecommendation, error)
	UpsertModels(ctx context.Context, task models.TaskType, list []models.ModelRecommendation) error
}

// PostgresStore is the models table backed ModelStore.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const modelColumns = `id, name, provider, parameters, memory_required, latency, license,
	base_score, reasoning, tradeoffs, is_warning`

// ModelsForQuery returns active models for the query's task, narrowed by
// framework, quantization and deployment target unless those are defaults.
// Warning rows are included.
func (s *PostgresStore) ModelsForQuery(ctx context.Context, q Query) ([]models.ModelRecommendation, error) {
	q = q.normalized()
	conds := []string{"is_active = true", "task_types @> ARRAY[$1]::text[]"}
	args := []any{string(q.Task)}

	narrow := func(column, value, def string) {
		if value == def {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s @> ARRAY[$%d]::text[]", column, len(args)))
	}
	narrow("inference_frameworks", q.Framework, models.DefaultFramework)
	narrow("quantization_formats", q.Quantization, models.DefaultQuantization)
	narrow("deployment_targets", q.DeploymentTarget, models.DefaultDeploymentTarget)

	sql := "SELECT " + modelColumns + " FROM models WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY base_score DESC"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query models: %w", err)
	}
	return scanModels(rows)
}

// ActiveModels returns every active non-warning model, best first.
func (s *PostgresStore) ActiveModels(ctx context.Context) ([]models.ModelRecommendation, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+modelColumns+
		" FROM models WHERE is_active = true AND is_warning = false ORDER BY base_score DESC")
	if err != nil {
		return nil, fmt.Errorf("query active models: %w", err)
	}
	return scanModels(rows)
}

// UpsertModels writes hub-derived models for task. Existing rows keep their
// other task memberships and filter arrays.
func (s *PostgresStore) UpsertModels(ctx context.Context, task models.TaskType, list []models.ModelRecommendation) error {
	batch := &pgx.Batch{}
	for _, m := range list {
		batch.Queue(`
			INSERT INTO models (id, name, provider, parameters, memory_required, latency, license,
				base_score, reasoning, tradeoffs, is_warning, is_active, task_types, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, true, ARRAY[$11]::text[], NOW())
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				provider = EXCLUDED.provider,
				parameters = EXCLUDED.parameters,
				memory_required = EXCLUDED.memory_required,
				latency = EXCLUDED.latency,
				license = EXCLUDED.license,
				base_score = EXCLUDED.base_score,
				reasoning = EXCLUDED.reasoning,
				tradeoffs = EXCLUDED.tradeoffs,
				is_active = true,
				task_types = ARRAY(SELECT DISTINCT unnest(models.task_types || EXCLUDED.task_types)),
				updated_at = NOW()`,
			m.ID, m.Name, m.Provider, m.Parameters, m.MemoryRequired, m.Latency, m.License,
			m.Score, m.Reasoning, m.Tradeoffs, string(task),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range list {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert model: %w", err)
		}
	}
	return nil
}

func scanModels(rows pgx.Rows) ([]models.ModelRecommendation, error) {
	defer rows.Close()

	var out []models.ModelRecommendation
	for rows.Next() {
		var m models.ModelRecommendation
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Provider, &m.Parameters, &m.MemoryRequired, &m.Latency,
			&m.License, &m.Score, &m.Reasoning, &m.Tradeoffs, &m.IsWarning,
		); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		if m.Tradeoffs == nil {
			m.Tradeoffs = []string{}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// StoreTier serves candidates from a ModelStore, filling a missing warning
// row from the curated table.
type StoreTier struct {
	store  ModelStore
	static *StaticCatalog
	logger *zap.Logger
}

// NewStoreTier creates the database tier.
func NewStoreTier(store ModelStore, static *StaticCatalog, logger *zap.Logger) *StoreTier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreTier{store: store, static: static, logger: logger}
}

func (t *StoreTier) Name() string { return TierStore }

func (t *StoreTier) Fetch(ctx context.Context, q Query) Outcome {
	if t.store == nil {
		return Unavailable("database not configured")
	}

	rows, err := t.store.ModelsForQuery(ctx, q)
	if err != nil {
		t.logger.Warn("models query failed", zap.String("task", string(q.Task)), zap.Error(err))
		return Unavailable("database query failed: %v", err)
	}

	var list []models.ModelRecommendation
	var warning *models.ModelRecommendation
	for _, m := range rows {
		if m.IsWarning {
			if warning == nil {
				w := m
				warning = &w
			}
			continue
		}
		list = append(list, m)
	}
	if len(list) == 0 {
		return Unavailable("no active models for task %q", q.Task)
	}

	if warning == nil {
		w, ok := t.static.Warning(q.Task)
		if !ok {
			return Unavailable("no warning model for task %q", q.Task)
		}
		warning = &w
	}
	return Available(list, *warning)
}
