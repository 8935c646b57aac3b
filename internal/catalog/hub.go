package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/infralens/api/internal/breaker"
	"github.com/infralens/api/internal/cache"
	"github.com/infralens/api/internal/models"
)

const (
	// TierHub is the name reported by the live Hugging Face tier.
	TierHub = "huggingface"

	DefaultHubBaseURL = "https://huggingface.co"
	DefaultHubTimeout = 10 * time.Second
	DefaultHubTTL     = time.Hour

	hubListingLimit = 50
)

// ErrNoPipeline is returned for task types the hub has no pipeline tag for.
var ErrNoPipeline = errors.New("no hub pipeline for task")

// ErrNoUsableModels is returned when the hub answered but nothing in the
// listing could be scored.
var ErrNoUsableModels = errors.New("hub returned no usable models")

var taskPipelines = map[models.TaskType]string{
	models.TaskTextGeneration:    "text-generation",
	models.TaskClassification:    "text-classification",
	models.TaskSummarization:     "summarization",
	models.TaskQuestionAnswering: "question-answering",
	models.TaskCodeGeneration:    "text-generation",
	models.TaskEmbedding:         "feature-extraction",
}

// PipelineTag returns the hub pipeline tag for task.
func PipelineTag(task models.TaskType) (string, bool) {
	tag, ok := taskPipelines[task]
	return tag, ok
}

// HubClient talks to the Hugging Face model listing API.
type HubClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	now        func() time.Time
}

// HubOption configures a HubClient
type HubOption func(*HubClient)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HubOption {
	return func(h *HubClient) { h.httpClient = c }
}

// WithHubClock replaces time.Now for recency scoring.
func WithHubClock(now func() time.Time) HubOption {
	return func(h *HubClient) { h.now = now }
}

// NewHubClient creates a client for baseURL. token may be empty.
func NewHubClient(baseURL, token string, timeout time.Duration, opts ...HubOption) *HubClient {
	if baseURL == "" {
		baseURL = DefaultHubBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultHubTimeout
	}
	h := &HubClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListModels fetches the most downloaded models for a pipeline tag.
func (h *HubClient) ListModels(ctx context.Context, pipelineTag string) ([]HubModel, error) {
	params := url.Values{}
	params.Set("pipeline_tag", pipelineTag)
	params.Set("sort", "downloads")
	params.Set("direction", "-1")
	params.Set("limit", fmt.Sprint(hubListingLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/models?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build hub request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub returned %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var listing []HubModel
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode hub listing: %w", err)
	}
	return listing, nil
}

// FetchTask lists and scores hub models for task.
func (h *HubClient) FetchTask(ctx context.Context, task models.TaskType) ([]models.ModelRecommendation, error) {
	tag, ok := PipelineTag(task)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPipeline, task)
	}
	listing, err := h.ListModels(ctx, tag)
	if err != nil {
		return nil, err
	}
	scored := ScoreHubModels(task, listing, h.now())
	if len(scored) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoUsableModels, task)
	}
	return scored, nil
}

// HubFetcher is the subset of HubClient used by the tier.
type HubFetcher interface {
	FetchTask(ctx context.Context, task models.TaskType) ([]models.ModelRecommendation, error)
}

// HubTier serves live hub models, cached per query, with the curated warning
// model for the task.
type HubTier struct {
	fetcher   HubFetcher
	static    *StaticCatalog
	cache     *cache.TTLCache[[]models.ModelRecommendation]
	snapshots SnapshotStore
	breaker   *breaker.CircuitBreaker
	logger    *zap.Logger
	onCache   func(hit bool)
}

// HubTierConfig collects HubTier dependencies. Snapshots, Breaker and OnCache
// are optional.
type HubTierConfig struct {
	Fetcher   HubFetcher
	Static    *StaticCatalog
	Cache     *cache.TTLCache[[]models.ModelRecommendation]
	Snapshots SnapshotStore
	Breaker   *breaker.CircuitBreaker
	Logger    *zap.Logger
	OnCache   func(hit bool)
}

// NewHubTier creates the live tier.
func NewHubTier(cfg HubTierConfig) *HubTier {
	t := &HubTier{
		fetcher:   cfg.Fetcher,
		static:    cfg.Static,
		cache:     cfg.Cache,
		snapshots: cfg.Snapshots,
		breaker:   cfg.Breaker,
		logger:    cfg.Logger,
		onCache:   cfg.OnCache,
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	if t.onCache == nil {
		t.onCache = func(bool) {}
	}
	return t
}

func (t *HubTier) Name() string { return TierHub }

func (t *HubTier) Fetch(ctx context.Context, q Query) Outcome {
	warning, ok := t.static.Warning(q.Task)
	if !ok {
		return Unavailable("no warning model for task %q", q.Task)
	}
	if _, ok := PipelineTag(q.Task); !ok {
		return Unavailable("no hub pipeline for task %q", q.Task)
	}

	key := q.Key()
	if t.cache != nil {
		if list, ok := t.cache.Get(key); ok {
			t.onCache(true)
			return Available(list, warning)
		}
		t.onCache(false)
	}

	if t.snapshots != nil {
		if list, ok := t.snapshots.Get(ctx, key); ok && len(list) > 0 {
			t.store(key, list)
			return Available(list, warning)
		}
	}

	if t.breaker != nil && !t.breaker.Allow() {
		return Unavailable("hub circuit open")
	}

	list, err := t.fetcher.FetchTask(ctx, q.Task)
	t.recordBreaker(ctx, err)
	if err != nil {
		t.logger.Warn("hub fetch failed", zap.String("task", string(q.Task)), zap.Error(err))
		return Unavailable("hub fetch failed: %v", err)
	}

	t.store(key, list)
	if t.snapshots != nil {
		t.snapshots.Set(ctx, key, list)
	}
	t.logger.Debug("hub models cached", zap.String("key", key), zap.Int("count", len(list)))
	return Available(models.CloneModels(list), warning)
}

// recordBreaker counts transport and status failures only. A cancelled
// caller or an empty listing says nothing about hub health.
func (t *HubTier) recordBreaker(ctx context.Context, err error) {
	switch {
	case t.breaker == nil:
	case err == nil:
		t.breaker.RecordSuccess()
	case ctx.Err() != nil, errors.Is(err, ErrNoUsableModels), errors.Is(err, ErrNoPipeline):
	default:
		t.breaker.RecordFailure()
	}
}

func (t *HubTier) store(key string, list []models.ModelRecommendation) {
	if t.cache != nil {
		t.cache.Set(key, list)
	}
}
