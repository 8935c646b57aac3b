package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infralens/api/internal/models"
)

var (
	ErrConfigNotFound = errors.New("saved config not found")
	ErrConfigExists   = errors.New("a config with this name already exists")
)

const uniqueViolation = "23505"

const savedConfigColumns = `id, user_id, name, task_type, gpu_memory, inference_device, max_latency,
	license_type, inference_framework, quantization, deployment_target, use_case_description,
	created_at, updated_at`

// SavedConfigs stores named configurations per user. Every query is scoped
// to the owning user.
type SavedConfigs struct {
	pool *pgxpool.Pool
}

func NewSavedConfigs(pool *pgxpool.Pool) *SavedConfigs {
	return &SavedConfigs{pool: pool}
}

// List returns the user's configs, most recently updated first.
func (s *SavedConfigs) List(ctx context.Context, userID string) ([]models.SavedConfig, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+savedConfigColumns+`
		FROM saved_configs WHERE user_id = $1 ORDER BY updated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved configs: %w", err)
	}
	defer rows.Close()

	configs := []models.SavedConfig{}
	for rows.Next() {
		cfg, err := scanSavedConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan saved config: %w", err)
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// Create inserts a config owned by userID.
func (s *SavedConfigs) Create(ctx context.Context, userID string, in models.SavedConfigInput) (models.SavedConfig, error) {
	in.ApplyDefaults()
	row := s.pool.QueryRow(ctx, `
		INSERT INTO saved_configs (id, user_id, name, task_type, gpu_memory, inference_device, max_latency,
			license_type, inference_framework, quantization, deployment_target, use_case_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+savedConfigColumns,
		uuid.New(), userID, in.Name, in.TaskType, in.GPUMemory, in.InferenceDevice, in.MaxLatency,
		in.LicenseType, in.InferenceFramework, in.Quantization, in.DeploymentTarget, in.UseCaseDescription,
	)
	cfg, err := scanSavedConfig(row)
	if err != nil {
		return models.SavedConfig{}, classify("create saved config", err)
	}
	return cfg, nil
}

// Update replaces every writable field of the user's config id.
func (s *SavedConfigs) Update(ctx context.Context, userID string, id uuid.UUID, in models.SavedConfigInput) (models.SavedConfig, error) {
	in.ApplyDefaults()
	row := s.pool.QueryRow(ctx, `
		UPDATE saved_configs SET
			name = $3, task_type = $4, gpu_memory = $5, inference_device = $6, max_latency = $7,
			license_type = $8, inference_framework = $9, quantization = $10, deployment_target = $11,
			use_case_description = $12, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING `+savedConfigColumns,
		id, userID, in.Name, in.TaskType, in.GPUMemory, in.InferenceDevice, in.MaxLatency,
		in.LicenseType, in.InferenceFramework, in.Quantization, in.DeploymentTarget, in.UseCaseDescription,
	)
	cfg, err := scanSavedConfig(row)
	if err != nil {
		return models.SavedConfig{}, classify("update saved config", err)
	}
	return cfg, nil
}

// Delete removes the user's config id.
func (s *SavedConfigs) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM saved_configs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete saved config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConfigNotFound
	}
	return nil
}

func scanSavedConfig(row pgx.Row) (models.SavedConfig, error) {
	var c models.SavedConfig
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.TaskType, &c.GPUMemory, &c.InferenceDevice,
		&c.MaxLatency, &c.LicenseType, &c.InferenceFramework, &c.Quantization, &c.DeploymentTarget,
		&c.UseCaseDescription, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrConfigNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrConfigExists
	}
	return fmt.Errorf("%s: %w", op, err)
}
