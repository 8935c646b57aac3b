package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infralens/api/internal/cache"
	"github.com/infralens/api/internal/models"
)

type downTier struct {
	name  string
	calls atomic.Int32
}

func (d *downTier) Name() string { return d.name }

func (d *downTier) Fetch(context.Context, Query) Outcome {
	d.calls.Add(1)
	return Unavailable("%s is down", d.name)
}

type fakeStore struct {
	rows []models.ModelRecommendation
	err  error
	last Query
}

func (f *fakeStore) ModelsForQuery(_ context.Context, q Query) ([]models.ModelRecommendation, error) {
	f.last = q
	return models.CloneModels(f.rows), f.err
}

func (f *fakeStore) ActiveModels(context.Context) ([]models.ModelRecommendation, error) {
	return nil, errors.New("not used")
}

func (f *fakeStore) UpsertModels(context.Context, models.TaskType, []models.ModelRecommendation) error {
	return nil
}

func TestStaticCatalogCoversEveryTask(t *testing.T) {
	static := mustStatic(t)
	for _, task := range models.TaskTypes {
		list, ok := static.Models(task)
		require.True(t, ok, task)
		assert.Len(t, list, 3, task)

		w, ok := static.Warning(task)
		require.True(t, ok, task)
		assert.True(t, w.IsWarning, task)
		assert.Zero(t, w.Score, task)
	}
	assert.Len(t, static.All(), 18)
}

func TestStaticCatalogReturnsCopies(t *testing.T) {
	static := mustStatic(t)
	list, _ := static.Models(models.TaskEmbedding)
	list[0].Score = -1
	list[0].Tradeoffs[0] = "changed"

	again, _ := static.Models(models.TaskEmbedding)
	assert.Equal(t, 97, again[0].Score)
	assert.Equal(t, "English-focused", again[0].Tradeoffs[0])
}

func TestParseStaticCatalogRejectsMissingWarning(t *testing.T) {
	_, err := ParseStaticCatalog([]byte(`
tasks:
  embedding:
    models:
      - id: a
        score: 1
`))
	assert.ErrorContains(t, err, "no warning model")
}

func TestChainFallsThroughToStatic(t *testing.T) {
	static := mustStatic(t)
	hub := &downTier{name: TierHub}
	db := &downTier{name: TierStore}

	var seen []string
	chain := NewChain(func(tier string, ok bool, _ string) {
		if ok {
			seen = append(seen, tier+":ok")
		} else {
			seen = append(seen, tier+":down")
		}
	}, hub, db, NewStaticTier(static))

	for _, task := range models.TaskTypes {
		c, err := chain.Resolve(context.Background(), Query{Task: task})
		require.NoError(t, err, task)
		assert.Equal(t, TierStatic, c.Tier)
		assert.NotEmpty(t, c.Models)
		assert.True(t, c.Warning.IsWarning)
	}
	assert.Equal(t, []string{"huggingface:down", "database:down", "static:ok"}, seen[:3])
}

func TestChainExhaustion(t *testing.T) {
	chain := NewChain(nil, &downTier{name: TierHub}, NewStaticTier(mustStatic(t)))
	_, err := chain.Resolve(context.Background(), Query{Task: "translation"})
	assert.ErrorIs(t, err, ErrNoModels)
}

func TestStoreTierPartitionsWarningRows(t *testing.T) {
	store := &fakeStore{rows: []models.ModelRecommendation{
		{ID: "db-a", Score: 90},
		{ID: "db-warn", Score: 0, IsWarning: true},
		{ID: "db-b", Score: 80},
	}}
	tier := NewStoreTier(store, mustStatic(t), nil)

	out := tier.Fetch(context.Background(), Query{Task: models.TaskClassification, Framework: "onnx"}.normalized())
	require.True(t, out.OK())
	assert.Len(t, out.Models, 2)
	assert.Equal(t, "db-warn", out.Warning.ID)
	assert.Equal(t, "onnx", store.last.Framework)
}

func TestStoreTierKeepsWarningScore(t *testing.T) {
	store := &fakeStore{rows: []models.ModelRecommendation{
		{ID: "db-a", Score: 90},
		{ID: "db-warn", Score: 35, IsWarning: true},
	}}
	tier := NewStoreTier(store, mustStatic(t), nil)

	out := tier.Fetch(context.Background(), Query{Task: models.TaskClassification}.normalized())
	require.True(t, out.OK())
	assert.Equal(t, "db-warn", out.Warning.ID)
	assert.Equal(t, 35, out.Warning.Score)
}

func TestStoreTierBackfillsWarning(t *testing.T) {
	store := &fakeStore{rows: []models.ModelRecommendation{{ID: "db-a", Score: 90}}}
	tier := NewStoreTier(store, mustStatic(t), nil)

	out := tier.Fetch(context.Background(), Query{Task: models.TaskClassification}.normalized())
	require.True(t, out.OK())
	assert.Equal(t, "bert-base", out.Warning.ID)
}

func TestStoreTierUnavailable(t *testing.T) {
	static := mustStatic(t)
	q := Query{Task: models.TaskClassification}.normalized()

	assert.False(t, NewStoreTier(&fakeStore{err: errors.New("conn reset")}, static, nil).Fetch(context.Background(), q).OK())
	assert.False(t, NewStoreTier(&fakeStore{}, static, nil).Fetch(context.Background(), q).OK())
	assert.False(t, NewStoreTier(&fakeStore{rows: []models.ModelRecommendation{{ID: "w", IsWarning: true}}}, static, nil).Fetch(context.Background(), q).OK())
	assert.False(t, NewStoreTier(nil, static, nil).Fetch(context.Background(), q).OK())
}

func TestQueryKeyAppliesDefaults(t *testing.T) {
	assert.Equal(t, "embedding:any:none:local-dev", Query{Task: models.TaskEmbedding}.Key())
	assert.Equal(t, "embedding:vllm:awq:cloud-vm",
		Query{Task: models.TaskEmbedding, Framework: "vllm", Quantization: "awq", DeploymentTarget: "cloud-vm"}.Key())
}

func TestServiceCachesResolvedCandidates(t *testing.T) {
	now := time.Unix(0, 0)
	results, err := NewResultCache(time.Minute, cache.WithClock[Candidates](func() time.Time { return now }))
	require.NoError(t, err)

	hub := &downTier{name: TierHub}
	svc := NewService(NewChain(nil, hub, NewStaticTier(mustStatic(t))), results, nil, nil)

	first, err := svc.ResolveCandidates(context.Background(), Query{Task: models.TaskSummarization})
	require.NoError(t, err)
	first.Models[0].Score = 0

	second, err := svc.ResolveCandidates(context.Background(), Query{Task: models.TaskSummarization})
	require.NoError(t, err)
	assert.EqualValues(t, 1, hub.calls.Load())
	assert.Equal(t, 92, second.Models[0].Score, "cached candidates are not shared with callers")

	now = now.Add(time.Minute)
	_, err = svc.ResolveCandidates(context.Background(), Query{Task: models.TaskSummarization})
	require.NoError(t, err)
	assert.EqualValues(t, 2, hub.calls.Load())
}

func TestServiceAllModels(t *testing.T) {
	svc := NewService(NewChain(nil, NewStaticTier(mustStatic(t))), nil, nil, nil)

	all, err := svc.AllModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 18)
	assert.Equal(t, "bge-large", all[0].ID)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Score, all[i].Score)
		assert.False(t, all[i].IsWarning)
	}
}
