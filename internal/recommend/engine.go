// Package recommend ranks catalog candidates against a user's deployment
// constraints.
package recommend

import (
	"errors"
	"sort"

	"github.com/infralens/api/internal/models"
)

// ErrNoCandidates is returned when the engine is handed an empty candidate list.
var ErrNoCandidates = errors.New("no candidate models to rank")

const (
	maxAlternatives = 2

	// Latency adjustments only apply to budgets tighter than this.
	latencySensitiveBelowMs = 100
	latencyWeight           = 0.1
)

// Result is the engine's ranked output before any LLM re-ranking.
type Result struct {
	Primary      models.ModelRecommendation
	Alternatives []models.ModelRecommendation
	Warning      models.ModelRecommendation
}

// Engine is the deterministic filter, score and rank pipeline.
type Engine struct {
	matcher *Matcher
}

// NewEngine creates an engine using matcher for use-case bonuses.
func NewEngine(matcher *Matcher) *Engine {
	if matcher == nil {
		matcher = NewMatcher(nil)
	}
	return &Engine{matcher: matcher}
}

// scored pairs a candidate with its transient adjusted score so the catalog
// entry itself is never modified.
type scored struct {
	model    models.ModelRecommendation
	adjusted float64
}

// Recommend filters candidates by memory and license, adjusts scores for
// latency and use case, and returns the top entry plus up to two
// alternatives. The warning model is passed through unchanged.
func (e *Engine) Recommend(cfg models.RecommendationConfig, candidates []models.ModelRecommendation, warning models.ModelRecommendation) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, ErrNoCandidates
	}

	pool := filterMemory(candidates, cfg.GPUMemory)
	pool = filterLicense(pool, cfg.LicenseType)

	ranked := make([]scored, 0, len(pool))
	for _, m := range pool {
		ranked = append(ranked, scored{
			model:    m,
			adjusted: e.adjustedScore(cfg, m),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].adjusted > ranked[j].adjusted
	})

	result := Result{
		Alternatives: []models.ModelRecommendation{},
		Warning:      warning.Clone(),
	}
	if len(ranked) == 0 {
		result.Primary = candidates[0].Clone()
		return result, nil
	}

	result.Primary = ranked[0].model.Clone()
	for _, s := range ranked[1:min(len(ranked), 1+maxAlternatives)] {
		result.Alternatives = append(result.Alternatives, s.model.Clone())
	}
	return result, nil
}

func (e *Engine) adjustedScore(cfg models.RecommendationConfig, m models.ModelRecommendation) float64 {
	score := float64(m.Score)
	if cfg.MaxLatency < latencySensitiveBelowMs {
		score += float64(latencySensitiveBelowMs-ParseLatencyMs(m.Latency)) * latencyWeight
	}
	return score + e.matcher.Bonus(cfg.UseCaseDescription, m)
}

// filterMemory keeps models that fit in the requested GPU memory. A filter that
// would remove every model is skipped.
func filterMemory(in []models.ModelRecommendation, gpuMemory string) []models.ModelRecommendation {
	ceiling := ParseMemoryGB(gpuMemory)
	if ceiling <= 0 {
		return in
	}
	return keepUnlessEmpty(in, func(m models.ModelRecommendation) bool {
		return ParseMemoryGB(m.MemoryRequired) <= ceiling
	})
}

// filterLicense applies the license policy. Only "permissive" narrows the pool;
// commercial and non-commercial are accepted but do not filter.
func filterLicense(in []models.ModelRecommendation, policy string) []models.ModelRecommendation {
	if policy != models.LicensePermissive {
		return in
	}
	return keepUnlessEmpty(in, func(m models.ModelRecommendation) bool {
		return IsPermissive(m.License)
	})
}

func keepUnlessEmpty(in []models.ModelRecommendation, keep func(models.ModelRecommendation) bool) []models.ModelRecommendation {
	out := make([]models.ModelRecommendation, 0, len(in))
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}
