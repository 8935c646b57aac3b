// Package catalog resolves candidate models for a task from an ordered chain
// of sources: the live Hugging Face Hub, the models table, and a curated
// static table.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/infralens/api/internal/models"
)

// ErrNoModels is returned when no tier can supply candidates for a task.
var ErrNoModels = errors.New("no models available for task")

// Query selects candidates for one recommendation request.
type Query struct {
	Task             models.TaskType
	Framework        string
	Quantization     string
	DeploymentTarget string
}

// NewQuery builds a Query from a request, with defaults applied.
func NewQuery(cfg models.RecommendationConfig) Query {
	cfg.ApplyDefaults()
	return Query{
		Task:             cfg.TaskType,
		Framework:        cfg.InferenceFramework,
		Quantization:     cfg.Quantization,
		DeploymentTarget: cfg.DeploymentTarget,
	}.normalized()
}

func (q Query) normalized() Query {
	if q.Framework == "" {
		q.Framework = models.DefaultFramework
	}
	if q.Quantization == "" {
		q.Quantization = models.DefaultQuantization
	}
	if q.DeploymentTarget == "" {
		q.DeploymentTarget = models.DefaultDeploymentTarget
	}
	return q
}

// Key identifies the query for caching.
func (q Query) Key() string {
	q = q.normalized()
	return fmt.Sprintf("%s:%s:%s:%s", q.Task, q.Framework, q.Quantization, q.DeploymentTarget)
}

// Candidates is the resolved input to the recommendation engine.
type Candidates struct {
	Models  []models.ModelRecommendation
	Warning models.ModelRecommendation
	// Tier names the source that answered.
	Tier string
}

func (c Candidates) clone() Candidates {
	c.Models = models.CloneModels(c.Models)
	c.Warning = c.Warning.Clone()
	return c
}

// Outcome is the result of asking one tier. A tier either has candidates or
// reports why it could not answer; it never returns an error.
type Outcome struct {
	Models  []models.ModelRecommendation
	Warning models.ModelRecommendation
	Reason  string
	ok      bool
}

// Available reports a usable answer.
func Available(list []models.ModelRecommendation, warning models.ModelRecommendation) Outcome {
	return Outcome{Models: list, Warning: warning, ok: true}
}

// Unavailable reports that the tier had nothing usable.
func Unavailable(format string, args ...any) Outcome {
	return Outcome{Reason: fmt.Sprintf(format, args...)}
}

// OK reports whether the outcome carries candidates.
func (o Outcome) OK() bool {
	return o.ok && len(o.Models) > 0
}

// Tier is one source of candidates.
type Tier interface {
	Name() string
	Fetch(ctx context.Context, q Query) Outcome
}

// TierObserver is notified of every tier attempt.
type TierObserver func(tier string, ok bool, reason string)

// Chain asks each tier in order and returns the first usable answer.
type Chain struct {
	tiers    []Tier
	observer TierObserver
}

// NewChain creates a chain over tiers, tried in the given order.
func NewChain(observer TierObserver, tiers ...Tier) *Chain {
	if observer == nil {
		observer = func(string, bool, string) {}
	}
	return &Chain{tiers: tiers, observer: observer}
}

// Resolve walks the tiers. It returns ErrNoModels if every tier is unavailable.
func (c *Chain) Resolve(ctx context.Context, q Query) (Candidates, error) {
	q = q.normalized()
	for _, tier := range c.tiers {
		out := tier.Fetch(ctx, q)
		c.observer(tier.Name(), out.OK(), out.Reason)
		if out.OK() {
			return Candidates{Models: out.Models, Warning: out.Warning, Tier: tier.Name()}, nil
		}
	}
	return Candidates{}, fmt.Errorf("%w: %s", ErrNoModels, q.Task)
}
