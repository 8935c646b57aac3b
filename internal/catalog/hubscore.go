package catalog

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/infralens/api/internal/models"
)

// HubModel is one entry of the Hugging Face /api/models listing.
type HubModel struct {
	ID           string       `json:"id"`
	ModelID      string       `json:"modelId"`
	PipelineTag  string       `json:"pipeline_tag,omitempty"`
	Downloads    int64        `json:"downloads"`
	Likes        int64        `json:"likes"`
	LastModified string       `json:"lastModified"`
	Tags         []string     `json:"tags"`
	Safetensors  *Safetensors `json:"safetensors,omitempty"`
}

// Safetensors carries the parameter metadata the hub reports.
type Safetensors struct {
	Total      int64            `json:"total,omitempty"`
	Parameters map[string]int64 `json:"parameters,omitempty"`
}

// Identifier returns the repo id, preferring modelId.
func (m HubModel) Identifier() string {
	if m.ModelID != "" {
		return m.ModelID
	}
	return m.ID
}

const (
	unknownLicense = "Unknown"
	maxHubModels   = 10
	maxTradeoffs   = 3

	// Used when lastModified cannot be parsed.
	defaultAgeDays = 90
)

var (
	billionsInName = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*b(?:illion)?(?:\b|[-_])`)
	millionsInName = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m(?:illion)?(?:\b|[-_])`)
)

// Known architectures and their approximate parameter counts. Order matters:
// more specific names come first.
var architectureSizes = []struct {
	names  []string
	params float64
}{
	{[]string{"distilbert"}, 66e6},
	{[]string{"roberta-large", "xlm-roberta-large"}, 355e6},
	{[]string{"roberta-base", "xlm-roberta-base"}, 125e6},
	{[]string{"deberta-v3-large", "deberta-large"}, 304e6},
	{[]string{"deberta-v3-base", "deberta-base"}, 86e6},
	{[]string{"bert-large"}, 340e6},
	{[]string{"bert-base"}, 110e6},
	{[]string{"albert-base"}, 12e6},
	{[]string{"albert-large"}, 18e6},
	{[]string{"electra-large"}, 335e6},
	{[]string{"electra-base"}, 110e6},
	{[]string{"bart-large"}, 406e6},
	{[]string{"bart-base"}, 139e6},
	{[]string{"t5-large"}, 770e6},
	{[]string{"t5-base"}, 220e6},
	{[]string{"t5-small"}, 60e6},
	{[]string{"flan-t5"}, 250e6},
	{[]string{"e5-large"}, 335e6},
	{[]string{"e5-base"}, 110e6},
	{[]string{"bge-large"}, 335e6},
	{[]string{"bge-base"}, 110e6},
	{[]string{"minilm"}, 33e6},
	{[]string{"sentence-transformers"}, 110e6},
}

var prettyLicenses = map[string]string{
	"apache-2.0":   "Apache 2.0",
	"mit":          "MIT",
	"cc-by-4.0":    "CC BY 4.0",
	"cc-by-sa-4.0": "CC BY-SA 4.0",
	"openrail":     "OpenRAIL",
}

var licenseScores = map[string]float64{
	"Apache 2.0":   15,
	"MIT":          15,
	"CC BY 4.0":    12,
	"CC BY-SA 4.0": 10,
	"OpenRAIL":     10,
}

const defaultLicenseScore = 5

// ParameterCount resolves a model's size from safetensors metadata, then the
// repo name, then known architecture names. It returns 0 when all fail.
func ParameterCount(m HubModel) float64 {
	if m.Safetensors != nil {
		if m.Safetensors.Total > 0 {
			return float64(m.Safetensors.Total)
		}
		var largest int64
		for _, v := range m.Safetensors.Parameters {
			largest = max(largest, v)
		}
		if largest > 0 {
			return float64(largest)
		}
	}

	id := strings.ToLower(m.Identifier())
	if n, ok := sizeFromName(billionsInName, id); ok {
		return n * 1e9
	}
	if n, ok := sizeFromName(millionsInName, id); ok {
		return n * 1e6
	}

	combined := id + " " + strings.ToLower(strings.Join(m.Tags, " "))
	for _, arch := range architectureSizes {
		for _, name := range arch.names {
			if strings.Contains(combined, name) {
				return arch.params
			}
		}
	}
	return 0
}

func sizeFromName(re *regexp.Regexp, name string) (float64, bool) {
	match := re.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FormatParameters renders a parameter count as 7B, 1.5B, 335M or 12K.
func FormatParameters(count float64) string {
	switch {
	case count >= 1e9:
		v := count / 1e9
		if v == math.Trunc(v) {
			return fmt.Sprintf("%.0fB", v)
		}
		return fmt.Sprintf("%.1fB", v)
	case count >= 1e6:
		return fmt.Sprintf("%.0fM", count/1e6)
	}
	return fmt.Sprintf("%.0fK", math.Round(count/1e3))
}

// EstimateMemory is the fp16 footprint at two bytes per parameter.
func EstimateMemory(count float64) string {
	gb := count * 2 / (1 << 30)
	switch {
	case gb < 1:
		return fmt.Sprintf("%.0f MB", math.Round(gb*1024))
	case gb < 10:
		return fmt.Sprintf("%.1f GB", gb)
	}
	return fmt.Sprintf("%.0f GB", math.Round(gb))
}

// EstimateLatency maps a size band to a rough per-token latency.
func EstimateLatency(count float64) string {
	billions := count / 1e9
	switch {
	case billions >= 30:
		return "~100ms/token"
	case billions >= 10:
		return "~60ms/token"
	case billions >= 3:
		return "~40ms/token"
	case billions >= 1:
		return "~30ms/token"
	}
	return "~5ms"
}

// ExtractLicense reads the first license: tag.
func ExtractLicense(tags []string) string {
	for _, tag := range tags {
		raw, ok := strings.CutPrefix(tag, "license:")
		if !ok {
			continue
		}
		if pretty, ok := prettyLicenses[raw]; ok {
			return pretty
		}
		return raw
	}
	return unknownLicense
}

func isPermissiveLabel(license string) bool {
	return license == "Apache 2.0" || license == "MIT"
}

// daysSince returns the age of an RFC 3339 timestamp, or defaultAgeDays when
// it cannot be parsed.
func daysSince(ts string, now time.Time) float64 {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return defaultAgeDays
	}
	return now.Sub(t).Hours() / 24
}

type batchStats struct {
	maxDownloads float64
	maxLikes     float64
	minParams    float64
	maxParams    float64
}

func scoreHubModel(m HubModel, params float64, stats batchStats, license string, ageDays float64) int {
	var downloads, likes float64
	if stats.maxDownloads > 0 {
		downloads = math.Log1p(float64(m.Downloads)) / math.Log1p(stats.maxDownloads) * 30
	}
	if stats.maxLikes > 0 {
		likes = math.Log1p(float64(m.Likes)) / math.Log1p(stats.maxLikes) * 10
	}

	recency := 20.0
	if ageDays > 30 {
		recency = math.Max(0, 20*(1-(ageDays-30)/150))
	}

	licenseScore, ok := licenseScores[license]
	if !ok {
		licenseScore = defaultLicenseScore
	}

	// Without a size spread every model gets the midpoint.
	size := 12.5
	if stats.maxParams > stats.minParams {
		size = (1 - params/stats.maxParams) * 25
	}

	return int(math.Round(downloads + recency + licenseScore + likes + size))
}

func hubReasoning(m HubModel, params float64, license string, ageDays float64) string {
	var parts []string
	switch {
	case m.Downloads >= 1_000_000:
		parts = append(parts, fmt.Sprintf("Highly popular with %.1fM+ downloads", float64(m.Downloads)/1e6))
	case m.Downloads >= 100_000:
		parts = append(parts, fmt.Sprintf("Well-adopted with %.0fK+ downloads", float64(m.Downloads)/1e3))
	}
	if ageDays <= 60 {
		parts = append(parts, "recently updated")
	}
	if isPermissiveLabel(license) {
		parts = append(parts, fmt.Sprintf("permissive %s license", license))
	}
	if params < 1e9 {
		parts = append(parts, "lightweight and efficient")
	} else if params > 30e9 {
		parts = append(parts, "large model with strong capabilities")
	}
	if len(parts) == 0 {
		return "Community model from Hugging Face Hub."
	}
	return strings.Join(parts, ". ") + "."
}

func hubTradeoffs(m HubModel, params float64, license string, ageDays float64) []string {
	var out []string

	switch {
	case params >= 30e9:
		out = append(out, "Requires multi-GPU or offloading for inference")
	case params >= 13e9:
		out = append(out, "Needs a high-VRAM GPU (16 GB+) for full-precision inference")
	case params >= 3e9:
		out = append(out, "Mid-size model, may underperform larger alternatives on complex reasoning")
	case params >= 500e6:
		out = append(out, "Compact model, faster inference but limited on nuanced tasks")
	default:
		out = append(out, "Very small model, best for narrow or well-defined tasks")
	}

	switch {
	case license == unknownLicense:
		out = append(out, "License not specified, verify terms before use")
	case !isPermissiveLabel(license):
		out = append(out, "Review license terms before commercial deployment")
	}

	switch {
	case ageDays > 365:
		out = append(out, "Over a year since last update, may lack recent improvements")
	case ageDays > 180:
		out = append(out, "Not recently maintained, verify compatibility with current tooling")
	case ageDays <= 14:
		out = append(out, "Very recently published, less battle-tested in production")
	}

	switch {
	case m.Downloads < 10_000:
		out = append(out, "Low download count, limited community validation")
	case m.Downloads < 100_000 && m.Likes < 50:
		out = append(out, "Modest community adoption, fewer real-world usage reports")
	}

	id := strings.ToLower(m.Identifier())
	if strings.Contains(id, "distil") {
		out = append(out, "Distilled variant, trades some accuracy for speed")
	}
	if strings.Contains(id, "gptq") || strings.Contains(id, "awq") || strings.Contains(id, "gguf") {
		out = append(out, "Pre-quantized weights, slight quality loss vs. full precision")
	}

	if len(out) > maxTradeoffs {
		out = out[:maxTradeoffs]
	}
	return out
}

func isCodeModel(m HubModel) bool {
	id := strings.ToLower(m.Identifier())
	if strings.Contains(id, "code") || strings.Contains(id, "coder") || strings.Contains(id, "starcoder") {
		return true
	}
	return slices.ContainsFunc(m.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), "code")
	})
}

// ScoreHubModels turns a raw hub listing into ranked recommendations. Models
// whose size cannot be determined are dropped; scores are relative to the
// batch. At most ten models are returned.
func ScoreHubModels(task models.TaskType, listing []HubModel, now time.Time) []models.ModelRecommendation {
	type sized struct {
		model  HubModel
		params float64
	}

	var valid []sized
	var stats batchStats
	for _, m := range listing {
		if task == models.TaskCodeGeneration && !isCodeModel(m) {
			continue
		}
		params := ParameterCount(m)
		if params <= 0 {
			continue
		}
		valid = append(valid, sized{model: m, params: params})
		stats.maxDownloads = math.Max(stats.maxDownloads, float64(m.Downloads))
		stats.maxLikes = math.Max(stats.maxLikes, float64(m.Likes))
		if stats.minParams == 0 || params < stats.minParams {
			stats.minParams = params
		}
		stats.maxParams = math.Max(stats.maxParams, params)
	}

	out := make([]models.ModelRecommendation, 0, len(valid))
	for _, v := range valid {
		license := ExtractLicense(v.model.Tags)
		age := daysSince(v.model.LastModified, now)

		id := v.model.Identifier()
		provider, name, found := strings.Cut(id, "/")
		if !found {
			provider, name = "Community", id
		}

		out = append(out, models.ModelRecommendation{
			ID:             id,
			Name:           name,
			Provider:       provider,
			Parameters:     FormatParameters(v.params),
			MemoryRequired: EstimateMemory(v.params),
			Latency:        EstimateLatency(v.params),
			License:        license,
			Score:          scoreHubModel(v.model, v.params, stats, license, age),
			Reasoning:      hubReasoning(v.model, v.params, license, age),
			Tradeoffs:      hubTradeoffs(v.model, v.params, license, age),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > maxHubModels {
		out = out[:maxHubModels]
	}
	return out
}
