package recommend

import (
	"strings"

	"github.com/infralens/api/internal/models"
)

const (
	// MaxUseCaseBonus caps the total points a description can add to a model.
	MaxUseCaseBonus = 25
	// MentionBonus is awarded once when the description names the model.
	MentionBonus = 15

	minMentionLength = 3
)

// UseCaseRule awards Points to a model when the description contains any of
// Keywords and the model satisfies Applies.
type UseCaseRule struct {
	Name     string
	Keywords []string
	Points   float64
	Applies  func(m models.ModelRecommendation) bool
}

// DefaultUseCaseRules is the ordered rule set used by the engine.
var DefaultUseCaseRules = []UseCaseRule{
	{
		Name:     "edge",
		Keywords: []string{"mobile", "edge", "lightweight", "on-device", "embedded", "iot", "raspberry"},
		Points:   12,
		Applies:  func(m models.ModelRecommendation) bool { return ParseMemoryGB(m.MemoryRequired) <= 4 },
	},
	{
		Name:     "realtime",
		Keywords: []string{"real-time", "realtime", "low latency", "low-latency", "instant", "interactive"},
		Points:   10,
		Applies:  func(m models.ModelRecommendation) bool { return ParseLatencyMs(m.Latency) <= 20 },
	},
	{
		Name:     "code",
		Keywords: []string{"code", "coding", "programming", "developer", "autocomplete", "refactor"},
		Points:   10,
		Applies: func(m models.ModelRecommendation) bool {
			id := strings.ToLower(m.ID + " " + m.Name)
			return strings.Contains(id, "code") || strings.Contains(id, "coder")
		},
	},
	{
		Name:     "commercial",
		Keywords: []string{"commercial", "enterprise", "business", "startup", "saas", "customer"},
		Points:   8,
		Applies:  func(m models.ModelRecommendation) bool { return IsPermissive(m.License) },
	},
	{
		Name:     "throughput",
		Keywords: []string{"high throughput", "throughput", "batch", "millions", "high volume", "high-volume"},
		Points:   8,
		Applies:  func(m models.ModelRecommendation) bool { return ParseMemoryGB(m.MemoryRequired) <= 2 },
	},
	{
		Name:     "multilingual",
		Keywords: []string{"multilingual", "translation", "languages", "international"},
		Points:   8,
		Applies: func(m models.ModelRecommendation) bool {
			text := strings.ToLower(m.ID + " " + m.Reasoning)
			return strings.Contains(text, "multilingual") || strings.Contains(text, "xlm")
		},
	},
	{
		Name:     "long-context",
		Keywords: []string{"long document", "long-form", "long context", "large documents", "reports", "books"},
		Points:   6,
		Applies:  func(m models.ModelRecommendation) bool { return ParseParameterCount(m.Parameters) >= 7e9 },
	},
	{
		Name:     "quality",
		Keywords: []string{"accuracy", "accurate", "high quality", "state-of-the-art", "best possible"},
		Points:   6,
		Applies:  func(m models.ModelRecommendation) bool { return m.Score >= 90 },
	},
}

// Matcher scores how well a model fits a free-text use case.
type Matcher struct {
	rules []UseCaseRule
}

// NewMatcher creates a matcher over rules, or the default set when nil.
func NewMatcher(rules []UseCaseRule) *Matcher {
	if rules == nil {
		rules = DefaultUseCaseRules
	}
	return &Matcher{rules: rules}
}

// Bonus returns the points awarded to m for description. Empty descriptions
// score 0 and the result never exceeds MaxUseCaseBonus.
func (mt *Matcher) Bonus(description string, m models.ModelRecommendation) float64 {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return 0
	}

	var bonus float64
	for _, rule := range mt.rules {
		if containsAny(desc, rule.Keywords) && rule.Applies(m) {
			bonus += rule.Points
		}
	}

	if mentions(desc, m) {
		bonus += MentionBonus
	}

	if bonus > MaxUseCaseBonus {
		return MaxUseCaseBonus
	}
	return bonus
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func mentions(desc string, m models.ModelRecommendation) bool {
	for _, term := range []string{m.Name, m.Provider, m.ID} {
		term = strings.ToLower(strings.TrimSpace(term))
		if len(term) >= minMentionLength && strings.Contains(desc, term) {
			return true
		}
	}
	return false
}
