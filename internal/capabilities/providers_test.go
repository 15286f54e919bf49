package capabilities

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/assistant"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/entities"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		LLM:        config.LLMConfig{Provider: "gemini"},
		Embedding:  config.EmbeddingConfig{Provider: "gemini", Dimension: 384},
		Experience: config.ExperienceConfig{ReferenceYear: 2024},
		Salary:     config.SalaryConfig{Base: 60000, Currency: "USD"},
		Store:      config.StoreConfig{Driver: "memory", MatchThreshold: 0.3, Concurrency: 2},
	}
}

func TestBuild_WithoutCredentialsDegrades(t *testing.T) {
	cfg := testConfig()
	cfg.Entities.Enabled = true

	p, err := Build(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, types.ModelStatus{}, p.Status())
	assert.IsType(t, embedding.Unavailable{}, p.Embedding)
	assert.IsType(t, entities.None{}, p.Entities)
	assert.IsType(t, assistant.Canned{}, p.Assistant)
	assert.Equal(t, 384, p.Embedding.Dimension())
	assert.Equal(t, db.DriverMemory, p.StoreDriver())
	require.NotNil(t, p.Analysis)
	require.NotNil(t, p.Salary)
	require.NotNil(t, p.Matcher)
	assert.Equal(t, 0.3, p.Matcher.Threshold())
}

func TestBuild_ExplicitlyDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.GeminiAPIKey = "key-that-is-never-used"
	cfg.Embedding.Provider = ProviderNone
	cfg.Assistant.Provider = ProviderNone

	p, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.False(t, p.Status().Embedding)
	assert.False(t, p.Status().Assistant)
}

func TestBuild_OpenAIClientsAreShared(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.OpenAIAPIKey = "sk-test"
	cfg.LLM.StandardModel = "gpt-custom"
	cfg.Embedding.Provider = "openai"

	p, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, types.ModelStatus{Embedding: true, Assistant: true}, p.Status())
	assert.Equal(t, "text-embedding-3-small", p.Embedding.Model())
	assert.Equal(t, "gpt-custom", p.Assistant.Model())
}

func TestBuild_AnthropicCannotEmbed(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.Provider = "anthropic"
	cfg.LLM.AnthropicAPIKey = "sk-ant-test"
	cfg.Embedding.Provider = "anthropic"

	p, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	assert.False(t, p.Status().Embedding)
	assert.True(t, p.Status().Assistant)
}

func TestBuild_UnreachableRedisIsSkipped(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.OpenAIAPIKey = "sk-test"
	cfg.Embedding.Provider = "openai"
	cfg.Cache.RedisURL = "redis://127.0.0.1:1/0"

	p, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	_, cached := p.Embedding.(*embedding.Cached)
	assert.False(t, cached)
	assert.True(t, p.Status().Embedding)
}

func TestBuild_VocabularyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - name: lang\n    keywords: [zig]\n"), 0o600))

	cfg := testConfig()
	cfg.Skills.VocabularyFile = path
	p, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer p.Close()

	signals := p.Analysis.Extract(context.Background(), "Zig and Python")
	assert.Equal(t, []string{"Zig"}, []string(signals.Skills))

	cfg.Skills.VocabularyFile = filepath.Join(dir, "missing.yaml")
	_, err = Build(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "skill vocabulary")
}

func TestBuild_StoreFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "mongo"
	_, err := Build(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "mongo")
}

func TestLLMConfig_OverridesPrimaryOnly(t *testing.T) {
	cfg := testConfig()
	cfg.LLM.LiteModel = "tiny"
	cfg.LLM.OpenAIBaseURL = "http://localhost:11434/v1"
	cfg.Assistant.MaxTokens = 256
	b := &builder{cfg: cfg}

	gemini := b.llmConfig(llm.ProviderGemini)
	assert.Equal(t, "tiny", gemini.GetModel(llm.TierLite))
	assert.Equal(t, 256, gemini.MaxTokens)

	openai := b.llmConfig(llm.ProviderOpenAI)
	assert.Equal(t, "gpt-4o-mini", openai.GetModel(llm.TierLite))
	assert.Equal(t, "http://localhost:11434/v1", openai.BaseURL)
}
