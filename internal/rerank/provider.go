package rerank

import "fmt"

// Provider names accepted by NewCompleter.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// ProviderConfig selects and configures an LLM backend.
type ProviderConfig struct {
	Provider        string
	Model           string
	AnthropicAPIKey string
	AnthropicURL    string
	OpenAIAPIKey    string
	OpenAIURL       string
}

// NewCompleter builds the completer for cfg.Provider, defaulting to Anthropic.
// It returns ErrNotConfigured when the chosen provider has no API key.
func NewCompleter(cfg ProviderConfig) (Completer, error) {
	switch cfg.Provider {
	case "", ProviderAnthropic:
		c, err := NewAnthropicCompleter(AnthropicConfig{
			APIKey:  cfg.AnthropicAPIKey,
			BaseURL: cfg.AnthropicURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenAI:
		c, err := NewOpenAICompleter(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIURL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
