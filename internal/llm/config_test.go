package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultMaxTokens, config.MaxTokens)
}

func TestConfigFor(t *testing.T) {
	assert.Equal(t, ProviderOpenAI, ConfigFor(ProviderOpenAI).Provider)
	assert.Equal(t, "gpt-4o-mini", ConfigFor(ProviderOpenAI).GetModel(TierLite))
	assert.Equal(t, ProviderAnthropic, ConfigFor(ProviderAnthropic).Provider)
	assert.Equal(t, "claude-sonnet-4-0", ConfigFor(ProviderAnthropic).GetModel(TierStandard))
	assert.Equal(t, ProviderGemini, ConfigFor("unknown").Provider)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	// Unknown tier should fallback to TierStandard, then TierLite
	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{},
	}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, config.MaxTokens, newConfig.MaxTokens)
}

func TestWithModel_EmptyKeepsDefault(t *testing.T) {
	config := DefaultConfig().WithModel(TierLite, "")
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
}

func TestMaxTokens_Default(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, (&Config{}).maxTokens())
	assert.Equal(t, 50, (&Config{MaxTokens: 50}).maxTokens())
}

func TestProviderConstants(t *testing.T) {
	assert.Equal(t, Provider("gemini"), ProviderGemini)
	assert.Equal(t, Provider("openai"), ProviderOpenAI)
	assert.Equal(t, Provider("anthropic"), ProviderAnthropic)
}
