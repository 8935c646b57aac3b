// Package rerank blends an LLM's judgement of use-case fit into the
// deterministic ranking.
package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/infralens/api/internal/models"
	"github.com/infralens/api/internal/recommend"
)

// ErrNotConfigured is returned when no LLM credential is available.
var ErrNotConfigured = errors.New("llm reranking not configured")

const (
	baseWeight = 0.6
	fitWeight  = 0.4

	maxAlternatives = 2
)

var codeFence = regexp.MustCompile("```(?:json)?")

// Completer sends one system and user message pair to an LLM and returns the
// text of its reply.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Ranking is one entry of the LLM's reply.
type Ranking struct {
	ID        string  `json:"id"`
	FitScore  float64 `json:"fitScore"`
	Reasoning string  `json:"reasoning"`
}

// Reranker asks an LLM to reorder candidates for a described use case.
type Reranker struct {
	completer Completer
	logger    *zap.Logger
}

// New creates a reranker. A nil completer yields a reranker that always
// returns ErrNotConfigured.
func New(completer Completer, logger *zap.Logger) *Reranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reranker{completer: completer, logger: logger}
}

// Configured reports whether an LLM is available.
func (r *Reranker) Configured() bool {
	return r != nil && r.completer != nil
}

// Rerank blends LLM fit scores into candidates. applied is false when the
// reply could not be parsed, in which case the candidates are returned in
// their original order. A failed LLM call is returned as an error.
func (r *Reranker) Rerank(ctx context.Context, candidates []models.ModelRecommendation, warning models.ModelRecommendation, cfg models.RecommendationConfig) (result recommend.Result, applied bool, err error) {
	if !r.Configured() {
		return recommend.Result{}, false, ErrNotConfigured
	}
	if len(candidates) == 0 {
		return recommend.Result{}, false, recommend.ErrNoCandidates
	}

	prompt, err := BuildUserPrompt(candidates, cfg)
	if err != nil {
		return recommend.Result{}, false, err
	}

	reply, err := r.completer.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return recommend.Result{}, false, fmt.Errorf("llm completion: %w", err)
	}

	rankings, err := ParseRankings(reply)
	if err != nil {
		r.logger.Warn("unparseable llm ranking, keeping deterministic order", zap.Error(err))
		return split(models.CloneModels(candidates), warning.Clone()), false, nil
	}

	return Blend(candidates, warning, rankings), true, nil
}

// ParseRankings decodes the LLM reply, tolerating markdown code fences.
func ParseRankings(reply string) ([]Ranking, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(reply, ""))
	var rankings []Ranking
	if err := json.Unmarshal([]byte(cleaned), &rankings); err != nil {
		return nil, fmt.Errorf("decode rankings: %w", err)
	}
	if rankings == nil {
		return nil, errors.New("decode rankings: reply is not a JSON array")
	}
	return rankings, nil
}

// Blend combines base and fit scores as round(0.6*base + 0.4*fit) for every
// candidate the LLM ranked, replaces their reasoning, and re-sorts. The
// warning model's reasoning is rewritten when ranked but its score is not.
func Blend(candidates []models.ModelRecommendation, warning models.ModelRecommendation, rankings []Ranking) recommend.Result {
	byID := make(map[string]Ranking, len(rankings))
	for _, rk := range rankings {
		if _, dup := byID[rk.ID]; !dup {
			byID[rk.ID] = rk
		}
	}

	blended := models.CloneModels(candidates)
	for i := range blended {
		rk, ok := byID[blended[i].ID]
		if !ok {
			continue
		}
		blended[i].Score = BlendScore(blended[i].Score, rk.FitScore)
		if rk.Reasoning != "" {
			blended[i].Reasoning = rk.Reasoning
		}
	}
	sort.SliceStable(blended, func(i, j int) bool { return blended[i].Score > blended[j].Score })

	w := warning.Clone()
	if rk, ok := byID[w.ID]; ok && rk.Reasoning != "" {
		w.Reasoning = rk.Reasoning
	}
	return split(blended, w)
}

// BlendScore is round(0.6*base + 0.4*fit).
func BlendScore(base int, fit float64) int {
	return int(math.Round(float64(base)*baseWeight + fit*fitWeight))
}

func split(ranked []models.ModelRecommendation, warning models.ModelRecommendation) recommend.Result {
	res := recommend.Result{
		Primary:      ranked[0],
		Alternatives: []models.ModelRecommendation{},
		Warning:      warning,
	}
	res.Alternatives = append(res.Alternatives, ranked[1:min(len(ranked), 1+maxAlternatives)]...)
	return res
}
