package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infralens/api/internal/models"
)

var scoringNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func daysAgo(d int) string {
	return scoringNow.AddDate(0, 0, -d).Format(time.RFC3339)
}

func TestParameterCount(t *testing.T) {
	tests := []struct {
		name  string
		model HubModel
		want  float64
	}{
		{"safetensors total", HubModel{ModelID: "org/model-7b", Safetensors: &Safetensors{Total: 6_740_000_000}}, 6_740_000_000},
		{"safetensors max parameter", HubModel{ModelID: "org/x", Safetensors: &Safetensors{Parameters: map[string]int64{"F16": 100, "BF16": 300}}}, 300},
		{"billions in name", HubModel{ModelID: "meta-llama/Llama-3.1-8B-Instruct"}, 8e9},
		{"fractional billions", HubModel{ModelID: "Qwen/Qwen2-1.5B"}, 1.5e9},
		{"millions in name", HubModel{ModelID: "EleutherAI/pythia-410m"}, 410e6},
		{"architecture from id", HubModel{ModelID: "distilbert/distilbert-base-uncased"}, 66e6},
		{"architecture from tags", HubModel{ModelID: "someone/classifier", Tags: []string{"roberta-large"}}, 355e6},
		{"sentence transformers", HubModel{ModelID: "sentence-transformers/all-mpnet"}, 110e6},
		{"unknown", HubModel{ModelID: "someone/mystery"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParameterCount(tt.model))
		})
	}
}

func TestFormatParameters(t *testing.T) {
	assert.Equal(t, "7B", FormatParameters(7e9))
	assert.Equal(t, "1.5B", FormatParameters(1.5e9))
	assert.Equal(t, "6.7B", FormatParameters(6.74e9))
	assert.Equal(t, "335M", FormatParameters(335e6))
	assert.Equal(t, "12K", FormatParameters(12_400))
}

func TestEstimateMemory(t *testing.T) {
	assert.Equal(t, "126 MB", EstimateMemory(66e6))
	assert.Equal(t, "1.0 GB", EstimateMemory(560e6))
	assert.Equal(t, "13 GB", EstimateMemory(7e9))
	assert.Equal(t, "130 GB", EstimateMemory(70e9))
}

func TestEstimateLatency(t *testing.T) {
	assert.Equal(t, "~100ms/token", EstimateLatency(70e9))
	assert.Equal(t, "~60ms/token", EstimateLatency(13e9))
	assert.Equal(t, "~40ms/token", EstimateLatency(7e9))
	assert.Equal(t, "~30ms/token", EstimateLatency(1.5e9))
	assert.Equal(t, "~5ms", EstimateLatency(110e6))
}

func TestExtractLicense(t *testing.T) {
	assert.Equal(t, "Apache 2.0", ExtractLicense([]string{"pytorch", "license:apache-2.0"}))
	assert.Equal(t, "MIT", ExtractLicense([]string{"license:mit"}))
	assert.Equal(t, "CC BY-SA 4.0", ExtractLicense([]string{"license:cc-by-sa-4.0"}))
	assert.Equal(t, "llama3.1", ExtractLicense([]string{"license:llama3.1"}))
	assert.Equal(t, "Unknown", ExtractLicense([]string{"transformers"}))
}

func TestScoreHubModelsDropsUnsizedAndRanks(t *testing.T) {
	listing := []HubModel{
		{ModelID: "big/model-70b", Downloads: 1_000_000, Likes: 1000, LastModified: daysAgo(400), Tags: []string{"license:llama3"}},
		{ModelID: "small/model-1b", Downloads: 1_000_000, Likes: 1000, LastModified: daysAgo(10), Tags: []string{"license:apache-2.0"}},
		{ModelID: "someone/mystery", Downloads: 5_000_000, Likes: 10},
	}

	out := ScoreHubModels(models.TaskTextGeneration, listing, scoringNow)
	require.Len(t, out, 2)

	// 30 + 20 + 15 + 10 + (1 - 1/70)*25
	assert.Equal(t, "small/model-1b", out[0].ID)
	assert.Equal(t, 100, out[0].Score)
	assert.Equal(t, "small", out[0].Provider)
	assert.Equal(t, "model-1b", out[0].Name)
	assert.Equal(t, "1B", out[0].Parameters)
	assert.Equal(t, "~30ms/token", out[0].Latency)

	// 30 + 0 + 5 + 10 + 0
	assert.Equal(t, 45, out[1].Score)
	assert.Equal(t, []string{
		"Requires multi-GPU or offloading for inference",
		"Review license terms before commercial deployment",
		"Over a year since last update, may lack recent improvements",
	}, out[1].Tradeoffs)
}

func TestScoreHubModelsUnparseableDateCountsAsNinetyDays(t *testing.T) {
	listing := []HubModel{
		{ModelID: "org/model-7b", Downloads: 0, Likes: 0, LastModified: "not a date", Tags: []string{"license:mit"}},
	}
	out := ScoreHubModels(models.TaskTextGeneration, listing, scoringNow)
	require.Len(t, out, 1)

	// recency 20*(1-60/150)=12, license 15, size midpoint 12.5
	assert.Equal(t, 40, out[0].Score)
}

func TestScoreHubModelsSameSizeGetsSizeMidpoint(t *testing.T) {
	listing := []HubModel{
		{ModelID: "a/model-7b", Downloads: 1000, Likes: 10, LastModified: daysAgo(10), Tags: []string{"license:apache-2.0"}},
		{ModelID: "b/model-7b", Downloads: 1000, Likes: 10, LastModified: daysAgo(10), Tags: []string{"license:apache-2.0"}},
	}
	out := ScoreHubModels(models.TaskTextGeneration, listing, scoringNow)
	require.Len(t, out, 2)

	// 30 + 20 + 15 + 10 + 12.5
	assert.Equal(t, 88, out[0].Score)
	assert.Equal(t, 88, out[1].Score)
}

func TestScoreHubModelsCodeFilter(t *testing.T) {
	listing := []HubModel{
		{ModelID: "org/chat-7b"},
		{ModelID: "bigcode/starcoder2-7b"},
		{ModelID: "org/helper-7b", Tags: []string{"code"}},
	}
	out := ScoreHubModels(models.TaskCodeGeneration, listing, scoringNow)

	ids := make([]string, 0, len(out))
	for _, m := range out {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []string{"bigcode/starcoder2-7b", "org/helper-7b"}, ids)
}

func TestScoreHubModelsKeepsTopTen(t *testing.T) {
	var listing []HubModel
	for i := 1; i <= 15; i++ {
		listing = append(listing, HubModel{ModelID: "org/m-" + string(rune('a'+i)) + "-7b", Downloads: int64(i * 1000)})
	}
	out := ScoreHubModels(models.TaskTextGeneration, listing, scoringNow)
	assert.Len(t, out, 10)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
}

func TestHubReasoning(t *testing.T) {
	m := HubModel{Downloads: 2_500_000}
	assert.Equal(t,
		"Highly popular with 2.5M+ downloads. recently updated. permissive MIT license. lightweight and efficient.",
		hubReasoning(m, 110e6, "MIT", 5))

	m = HubModel{Downloads: 150_000}
	assert.Equal(t, "Well-adopted with 150K+ downloads.", hubReasoning(m, 7e9, "llama2", 100))

	assert.Equal(t, "Community model from Hugging Face Hub.", hubReasoning(HubModel{}, 7e9, "Unknown", 100))
}

func TestHubTradeoffsCapsAtThree(t *testing.T) {
	m := HubModel{ModelID: "org/distil-model-gptq", Downloads: 10}
	out := hubTradeoffs(m, 66e6, "Unknown", 5)
	assert.Equal(t, []string{
		"Very small model, best for narrow or well-defined tasks",
		"License not specified, verify terms before use",
		"Very recently published, less battle-tested in production",
	}, out)
}
