package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infralens/api/internal/models"
)

type fakeCompleter struct {
	reply  string
	err    error
	system string
	user   string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

func candidates() []models.ModelRecommendation {
	return []models.ModelRecommendation{
		{ID: "a", Name: "Model A", Score: 80, Reasoning: "base a", Tradeoffs: []string{"x"}},
		{ID: "b", Name: "Model B", Score: 75, Reasoning: "base b"},
		{ID: "c", Name: "Model C", Score: 70, Reasoning: "base c"},
	}
}

var warningModel = models.ModelRecommendation{ID: "w", Name: "Old", Score: 0, Reasoning: "outdated", IsWarning: true}

func testConfig() models.RecommendationConfig {
	cfg := models.RecommendationConfig{
		TaskType:           models.TaskClassification,
		GPUMemory:          "8gb",
		InferenceDevice:    "consumer-gpu",
		MaxLatency:         100,
		LicenseType:        "any",
		UseCaseDescription: "triage support tickets",
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestBlendScore(t *testing.T) {
	assert.Equal(t, 68, BlendScore(80, 50))
	assert.Equal(t, 100, BlendScore(100, 100))
	assert.Equal(t, 45, BlendScore(75, 0))
}

func TestRerankBlendsAndResorts(t *testing.T) {
	llm := &fakeCompleter{reply: "```json\n" + `[
		{"id": "c", "fitScore": 100, "reasoning": "c fits"},
		{"id": "a", "fitScore": 50, "reasoning": "a is ok"},
		{"id": "w", "fitScore": 90, "reasoning": "still avoid w"}
	]` + "\n```"}

	res, applied, err := New(llm, nil).Rerank(context.Background(), candidates(), warningModel, testConfig())
	require.NoError(t, err)
	require.True(t, applied)

	// c: 0.6*70+0.4*100 = 82, b: unranked 75, a: 0.6*80+0.4*50 = 68
	assert.Equal(t, "c", res.Primary.ID)
	assert.Equal(t, 82, res.Primary.Score)
	assert.Equal(t, "c fits", res.Primary.Reasoning)
	require.Len(t, res.Alternatives, 2)
	assert.Equal(t, "b", res.Alternatives[0].ID)
	assert.Equal(t, 75, res.Alternatives[0].Score)
	assert.Equal(t, "base b", res.Alternatives[0].Reasoning)
	assert.Equal(t, "a", res.Alternatives[1].ID)
	assert.Equal(t, 68, res.Alternatives[1].Score)

	assert.Equal(t, "still avoid w", res.Warning.Reasoning)
	assert.Equal(t, 0, res.Warning.Score)
	assert.True(t, res.Warning.IsWarning)

	assert.Equal(t, SystemPrompt, llm.system)
	assert.Contains(t, llm.user, `Use case description: "triage support tickets"`)
	assert.Contains(t, llm.user, `"baseScore": 80`)
	assert.Contains(t, llm.user, "- Max latency: 100ms")
}

func TestRerankMalformedReplyKeepsOrder(t *testing.T) {
	llm := &fakeCompleter{reply: "Sure! Model C is the best."}
	in := candidates()

	res, applied, err := New(llm, nil).Rerank(context.Background(), in, warningModel, testConfig())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, in[0], res.Primary)
	assert.Equal(t, in[1:3], res.Alternatives)
	assert.Equal(t, warningModel, res.Warning)
}

func TestRerankCallFailure(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("overloaded")}
	_, applied, err := New(llm, nil).Rerank(context.Background(), candidates(), warningModel, testConfig())
	assert.Error(t, err)
	assert.False(t, applied)
	assert.NotErrorIs(t, err, ErrNotConfigured)
}

func TestRerankNotConfigured(t *testing.T) {
	r := New(nil, nil)
	assert.False(t, r.Configured())
	_, _, err := r.Rerank(context.Background(), candidates(), warningModel, testConfig())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	llm := &fakeCompleter{reply: `[{"id":"a","fitScore":0,"reasoning":"changed"}]`}
	in := candidates()
	_, _, err := New(llm, nil).Rerank(context.Background(), in, warningModel, testConfig())
	require.NoError(t, err)
	assert.Equal(t, candidates(), in)
}

func TestRerankSingleCandidate(t *testing.T) {
	llm := &fakeCompleter{reply: `[{"id":"a","fitScore":90,"reasoning":"only"}]`}
	res, applied, err := New(llm, nil).Rerank(context.Background(), candidates()[:1], warningModel, testConfig())
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Empty(t, res.Alternatives)
	assert.Equal(t, 84, res.Primary.Score)
}

func TestParseRankings(t *testing.T) {
	rk, err := ParseRankings("```\n[{\"id\":\"x\",\"fitScore\":70,\"reasoning\":\"r\"}]\n```")
	require.NoError(t, err)
	assert.Equal(t, []Ranking{{ID: "x", FitScore: 70, Reasoning: "r"}}, rk)

	_, err = ParseRankings(`{"id":"x"}`)
	assert.Error(t, err)

	_, err = ParseRankings("null")
	assert.Error(t, err)
}

func TestRerankNullReplyIsNotApplied(t *testing.T) {
	llm := &fakeCompleter{reply: "```json\nnull\n```"}
	in := candidates()

	res, applied, err := New(llm, nil).Rerank(context.Background(), in, warningModel, testConfig())
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, in[0], res.Primary)
}

func TestNewCompleterSelectsProvider(t *testing.T) {
	_, err := NewCompleter(ProviderConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	c, err := NewCompleter(ProviderConfig{AnthropicAPIKey: "sk-ant"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicCompleter{}, c)

	c, err = NewCompleter(ProviderConfig{Provider: ProviderOpenAI, OpenAIAPIKey: "sk-oai"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompleter{}, c)

	_, err = NewCompleter(ProviderConfig{Provider: "gemini"})
	assert.ErrorContains(t, err, "unknown llm provider")
}

func TestAnthropicCompleterRequest(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"), r.URL.Path)
		assert.Equal(t, "sk-ant-test", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5-20251001",
			"content": [{"type": "text", "text": "[]"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 2}
		}`))
	}))
	defer srv.Close()

	c, err := NewAnthropicCompleter(AnthropicConfig{APIKey: "sk-ant-test", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	assert.Equal(t, DefaultAnthropicModel, body["model"])
	assert.EqualValues(t, 1024, body["max_tokens"])
	assert.EqualValues(t, 0, body["temperature"])
}

func TestOpenAICompleterRequest(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"), r.URL.Path)
		assert.Equal(t, "Bearer sk-oai-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "[]"}}]
		}`))
	}))
	defer srv.Close()

	c, err := NewOpenAICompleter(OpenAIConfig{APIKey: "sk-oai-test", BaseURL: srv.URL})
	require.NoError(t, err)

	out, err := c.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
	assert.Equal(t, DefaultOpenAIModel, body["model"])
	assert.EqualValues(t, 0, body["temperature"])
}
