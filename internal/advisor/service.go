// Package advisor serves one recommendation request end to end: candidate
// resolution, deterministic ranking, optional LLM re-ranking and analytics.
package advisor

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/catalog"
	"github.com/infralens/api/internal/metrics"
	"github.com/infralens/api/internal/models"
	"github.com/infralens/api/internal/recommend"
	"github.com/infralens/api/internal/rerank"
)

var tracer = otel.Tracer("github.com/infralens/api/internal/advisor")

// CandidateSource resolves candidates for a query.
type CandidateSource interface {
	ResolveCandidates(ctx context.Context, q catalog.Query) (catalog.Candidates, error)
}

// EventRecorder receives served recommendations.
type EventRecorder interface {
	RecordRecommendation(e models.AnalyticsEvent)
}

// Service wires the recommendation pipeline together.
type Service struct {
	source   CandidateSource
	engine   *recommend.Engine
	reranker *rerank.Reranker
	recorder EventRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates the pipeline. reranker and recorder may be nil.
func NewService(source CandidateSource, engine *recommend.Engine, reranker *rerank.Reranker, recorder EventRecorder, logger *zap.Logger) *Service {
	if engine == nil {
		engine = recommend.NewEngine(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source:   source,
		engine:   engine,
		reranker: reranker,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Caller identifies who asked, for analytics only.
type Caller struct {
	UserID    string
	SessionID string
}

// Recommend returns the primary pick, alternatives and warning for cfg.
func (s *Service) Recommend(ctx context.Context, cfg models.RecommendationConfig) (models.RecommendationResult, error) {
	return s.RecommendFor(ctx, cfg, Caller{})
}

// RecommendFor is Recommend with the caller attached to the analytics event.
func (s *Service) RecommendFor(ctx context.Context, cfg models.RecommendationConfig, caller Caller) (models.RecommendationResult, error) {
	ctx, span := tracer.Start(ctx, "Recommend")
	defer span.End()

	start := s.now()
	cfg.ApplyDefaults()
	span.SetAttributes(
		attribute.String("task_type", string(cfg.TaskType)),
		attribute.String("gpu_memory", cfg.GPUMemory),
		attribute.Int("max_latency", cfg.MaxLatency),
	)

	candidates, err := s.source.ResolveCandidates(ctx, catalog.NewQuery(cfg))
	if err != nil {
		span.RecordError(err)
		return models.RecommendationResult{}, err
	}
	span.SetAttributes(attribute.String("catalog_tier", candidates.Tier))

	ranked, err := s.engine.Recommend(cfg, candidates.Models, candidates.Warning)
	if err != nil {
		span.RecordError(err)
		return models.RecommendationResult{}, err
	}

	s.logger.Debug("deterministic top pick",
		zap.String("task", string(cfg.TaskType)),
		zap.String("primary", ranked.Primary.ID),
		zap.Int("score", ranked.Primary.Score),
		zap.String("tier", candidates.Tier),
	)

	final, usedLLM := s.maybeRerank(ctx, cfg, ranked)
	span.SetAttributes(attribute.Bool("used_llm_reranking", usedLLM))

	result := models.RecommendationResult{
		Primary:          final.Primary,
		Alternatives:     final.Alternatives,
		Warning:          final.Warning,
		UsedLLMReranking: usedLLM,
	}

	elapsed := s.now().Sub(start)
	metrics.RecommendationLatency.Observe(elapsed.Seconds())
	if s.recorder != nil {
		event := models.NewAnalyticsEvent(cfg, result, elapsed)
		event.UserID = caller.UserID
		event.SessionID = caller.SessionID
		s.recorder.RecordRecommendation(event)
	}
	return result, nil
}

func (s *Service) maybeRerank(ctx context.Context, cfg models.RecommendationConfig, ranked recommend.Result) (recommend.Result, bool) {
	if strings.TrimSpace(cfg.UseCaseDescription) == "" || !s.reranker.Configured() {
		metrics.RerankOutcomes.WithLabelValues("skipped").Inc()
		return ranked, false
	}

	candidates := append([]models.ModelRecommendation{ranked.Primary}, ranked.Alternatives...)
	reranked, applied, err := s.reranker.Rerank(ctx, candidates, ranked.Warning, cfg)
	switch {
	case errors.Is(err, rerank.ErrNotConfigured):
		metrics.RerankOutcomes.WithLabelValues("skipped").Inc()
		return ranked, false
	case err != nil:
		metrics.RerankOutcomes.WithLabelValues("failed").Inc()
		s.logger.Warn("llm rerank failed, using deterministic ranking", zap.Error(err))
		return ranked, false
	case !applied:
		metrics.RerankOutcomes.WithLabelValues("unparseable").Inc()
		return reranked, false
	}

	metrics.RerankOutcomes.WithLabelValues("applied").Inc()
	s.logger.Debug("llm rerank applied",
		zap.String("primary", reranked.Primary.ID),
		zap.Int("score", reranked.Primary.Score),
	)
	return reranked, true
}
