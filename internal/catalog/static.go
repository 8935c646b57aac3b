package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/infralens/api/internal/models"
)

//go:embed static_catalog.yaml
var staticCatalogYAML []byte

// TierStatic is the name reported by the curated fallback tier.
const TierStatic = "static"

type taskEntry struct {
	Models  []models.ModelRecommendation `yaml:"models"`
	Warning models.ModelRecommendation   `yaml:"warning"`
}

type staticFile struct {
	Tasks map[models.TaskType]taskEntry `yaml:"tasks"`
}

// StaticCatalog is the curated per-task table bundled with the binary.
type StaticCatalog struct {
	tasks map[models.TaskType]taskEntry
}

var loadDefault = sync.OnceValues(func() (*StaticCatalog, error) {
	return ParseStaticCatalog(staticCatalogYAML)
})

// DefaultStaticCatalog returns the embedded catalog.
func DefaultStaticCatalog() (*StaticCatalog, error) {
	return loadDefault()
}

// ParseStaticCatalog decodes a catalog document.
func ParseStaticCatalog(data []byte) (*StaticCatalog, error) {
	var f staticFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode static catalog: %w", err)
	}
	for task, e := range f.Tasks {
		if len(e.Models) == 0 {
			return nil, fmt.Errorf("static catalog: task %s has no models", task)
		}
		if e.Warning.ID == "" {
			return nil, fmt.Errorf("static catalog: task %s has no warning model", task)
		}
		e.Warning.IsWarning = true
		e.Warning.Score = 0
		f.Tasks[task] = e
	}
	return &StaticCatalog{tasks: f.Tasks}, nil
}

// Models returns a copy of the curated models for task.
func (s *StaticCatalog) Models(task models.TaskType) ([]models.ModelRecommendation, bool) {
	e, ok := s.tasks[task]
	if !ok {
		return nil, false
	}
	return models.CloneModels(e.Models), true
}

// Warning returns the curated warning model for task.
func (s *StaticCatalog) Warning(task models.TaskType) (models.ModelRecommendation, bool) {
	e, ok := s.tasks[task]
	if !ok {
		return models.ModelRecommendation{}, false
	}
	return e.Warning.Clone(), true
}

// All returns every curated non-warning model, task by task in display order.
func (s *StaticCatalog) All() []models.ModelRecommendation {
	var out []models.ModelRecommendation
	for _, task := range models.TaskTypes {
		if e, ok := s.tasks[task]; ok {
			out = append(out, models.CloneModels(e.Models)...)
		}
	}
	return out
}

// StaticTier serves the curated table.
type StaticTier struct {
	catalog *StaticCatalog
}

// NewStaticTier wraps catalog as a Tier.
func NewStaticTier(catalog *StaticCatalog) *StaticTier {
	return &StaticTier{catalog: catalog}
}

func (t *StaticTier) Name() string { return TierStatic }

func (t *StaticTier) Fetch(_ context.Context, q Query) Outcome {
	list, ok := t.catalog.Models(q.Task)
	if !ok {
		return Unavailable("no curated models for task %q", q.Task)
	}
	warning, _ := t.catalog.Warning(q.Task)
	return Available(list, warning)
}
