// Package llm provides model configuration and client abstractions over the
// Gemini, OpenAI and Anthropic APIs used for embeddings, entity tagging and the assistant.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: tagging, classification
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: conversational replies
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is the OpenAI provider (also any OpenAI-compatible endpoint)
	ProviderOpenAI Provider = "openai"
	// ProviderAnthropic is the Anthropic/Claude provider
	ProviderAnthropic Provider = "anthropic"
)

// DefaultMaxTokens bounds generated output when Config.MaxTokens is unset.
const DefaultMaxTokens = 1024

// Config holds the model configuration for one provider
type Config struct {
	Provider  Provider
	Models    map[ModelTier]string
	BaseURL   string
	MaxTokens int
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		MaxTokens: DefaultMaxTokens,
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
			TierAdvanced: "gpt-4.1",
		},
		MaxTokens: DefaultMaxTokens,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-sonnet-4-0",
			TierAdvanced: "claude-opus-4-0",
		},
		MaxTokens: DefaultMaxTokens,
	}
}

// ConfigFor returns the default configuration of a provider. Unknown providers get Gemini.
func ConfigFor(provider Provider) *Config {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	case ProviderAnthropic:
		return DefaultAnthropicConfig()
	default:
		return DefaultGeminiConfig()
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier.
// An empty model leaves the tier unchanged.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:  c.Provider,
		Models:    make(map[ModelTier]string, len(c.Models)+1),
		BaseURL:   c.BaseURL,
		MaxTokens: c.MaxTokens,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	if model != "" {
		newConfig.Models[tier] = model
	}
	return newConfig
}

func (c *Config) maxTokens() int {
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return DefaultMaxTokens
}
