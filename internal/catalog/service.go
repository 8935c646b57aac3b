package catalog

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/infralens/api/internal/cache"
	"github.com/infralens/api/internal/models"
)

// DefaultResultTTL is how long a fully resolved tier answer is reused.
const DefaultResultTTL = time.Minute

// Service resolves candidates through the tier chain behind a short-lived
// result cache.
type Service struct {
	chain   *Chain
	results *cache.TTLCache[Candidates]
	logger  *zap.Logger
	onCache func(hit bool)
}

// NewService creates a catalog service. results may be nil to disable caching.
func NewService(chain *Chain, results *cache.TTLCache[Candidates], logger *zap.Logger, onCache func(hit bool)) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if onCache == nil {
		onCache = func(bool) {}
	}
	return &Service{chain: chain, results: results, logger: logger, onCache: onCache}
}

// NewResultCache creates the combined result cache with copy-on-access.
func NewResultCache(ttl time.Duration, opts ...cache.Option[Candidates]) (*cache.TTLCache[Candidates], error) {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	opts = append([]cache.Option[Candidates]{cache.WithCopy(Candidates.clone)}, opts...)
	return cache.New(cache.DefaultSize, ttl, opts...)
}

// NewHubCache creates the per-query hub cache with copy-on-access.
func NewHubCache(ttl time.Duration, opts ...cache.Option[[]models.ModelRecommendation]) (*cache.TTLCache[[]models.ModelRecommendation], error) {
	if ttl <= 0 {
		ttl = DefaultHubTTL
	}
	opts = append([]cache.Option[[]models.ModelRecommendation]{cache.WithCopy(models.CloneModels)}, opts...)
	return cache.New(cache.DefaultSize, ttl, opts...)
}

// ResolveCandidates returns candidates and the warning model for q.
func (s *Service) ResolveCandidates(ctx context.Context, q Query) (Candidates, error) {
	q = q.normalized()
	key := q.Key()

	if s.results != nil {
		if c, ok := s.results.Get(key); ok {
			s.onCache(true)
			return c, nil
		}
		s.onCache(false)
	}

	c, err := s.chain.Resolve(ctx, q)
	if err != nil {
		return Candidates{}, err
	}

	s.logger.Debug("candidates resolved",
		zap.String("key", key),
		zap.String("tier", c.Tier),
		zap.Int("count", len(c.Models)),
	)

	if s.results != nil {
		s.results.Set(key, c)
	}
	return c.clone(), nil
}

// AllModels resolves every task concurrently and returns the distinct
// non-warning models, best first.
func (s *Service) AllModels(ctx context.Context) ([]models.ModelRecommendation, error) {
	perTask := make([][]models.ModelRecommendation, len(models.TaskTypes))

	g, gctx := errgroup.WithContext(ctx)
	for i, task := range models.TaskTypes {
		g.Go(func() error {
			c, err := s.ResolveCandidates(gctx, Query{Task: task})
			if err != nil {
				return err
			}
			perTask[i] = c.Models
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []models.ModelRecommendation
	for _, list := range perTask {
		for _, m := range list {
			if m.IsWarning || seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out, nil
}
