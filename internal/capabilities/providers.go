// Package capabilities builds the model-backed oracles, the store and the services
// once at process start. The resulting Providers value is read-only afterwards.
package capabilities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/jobmatch/internal/analysis"
	"github.com/jonathan/jobmatch/internal/assistant"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/jonathan/jobmatch/internal/db"
	"github.com/jonathan/jobmatch/internal/embedding"
	"github.com/jonathan/jobmatch/internal/entities"
	"github.com/jonathan/jobmatch/internal/experience"
	"github.com/jonathan/jobmatch/internal/llm"
	"github.com/jonathan/jobmatch/internal/logger"
	"github.com/jonathan/jobmatch/internal/matching"
	"github.com/jonathan/jobmatch/internal/salary"
	"github.com/jonathan/jobmatch/internal/skills"
	"github.com/jonathan/jobmatch/internal/types"
)

// ProviderNone disables a capability.
const ProviderNone = "none"

// Default embedding models per provider.
var defaultEmbeddingModels = map[llm.Provider]string{
	llm.ProviderGemini: "text-embedding-004",
	llm.ProviderOpenAI: "text-embedding-3-small",
}

const redisPingTimeout = 2 * time.Second

// Providers holds every capability and service shared by request handlers.
type Providers struct {
	Embedding embedding.Provider
	Entities  entities.Recognizer
	Assistant assistant.Assistant
	Analysis  *analysis.Service
	Salary    *salary.Estimator
	Store     db.Store
	Matcher   *matching.Matcher

	closers []func() error
	logger  *zap.Logger
}

// Build constructs Providers from cfg. Missing credentials or unreachable model
// backends leave the matching capability unavailable; store and vocabulary errors
// are returned.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Providers, error) {
	log = logger.OrNop(log)
	p := &Providers{logger: log.Named("capabilities")}
	b := &builder{cfg: cfg, clients: make(map[llm.Provider]llm.Client), providers: p}

	vocab := skills.DefaultVocabulary()
	if cfg.Skills.VocabularyFile != "" {
		loaded, err := skills.LoadVocabulary(cfg.Skills.VocabularyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load skill vocabulary: %w", err)
		}
		vocab = loaded
	}

	p.Embedding = b.embedding(ctx, log)
	p.Entities = b.entities(ctx, log)
	p.Assistant = b.assistant(ctx, log)

	extractor := skills.NewExtractor(vocab, p.Entities, log)
	estimator := experience.NewEstimator(cfg.Experience.ReferenceYear)
	p.Analysis = analysis.NewService(extractor, estimator, p.Embedding, log)
	p.Salary = salary.NewEstimator(cfg.Salary.Base, cfg.Salary.Currency, salary.WithLogger(log))

	store, err := db.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Driver, err)
	}
	p.Store = store
	p.closers = append(p.closers, store.Close)
	p.Matcher = matching.NewMatcher(store, p.Embedding, cfg.Store.MatchThreshold, cfg.Store.Concurrency, log)

	status := p.Status()
	p.logger.Info("capabilities ready",
		zap.Bool("embedding", status.Embedding),
		zap.Bool("entities", status.Entities),
		zap.Bool("assistant", status.Assistant),
		zap.String("store", store.Driver()))
	return p, nil
}

// Status reports which oracles are backed by a model.
func (p *Providers) Status() types.ModelStatus {
	return types.ModelStatus{
		Embedding: p.Embedding != nil && p.Embedding.Available(),
		Entities:  p.Entities != nil && p.Entities.Available(),
		Assistant: p.Assistant != nil && p.Assistant.Available(),
	}
}

// StoreDriver names the configured store, or "" when none is open.
func (p *Providers) StoreDriver() string {
	if p.Store == nil {
		return ""
	}
	return p.Store.Driver()
}

// Close releases clients, caches and the store in reverse creation order.
func (p *Providers) Close() error {
	var errs []error
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	p.closers = nil
	return errors.Join(errs...)
}

type builder struct {
	cfg       *config.Config
	clients   map[llm.Provider]llm.Client
	providers *Providers
}

// client returns the shared client of provider, creating it on first use.
func (b *builder) client(ctx context.Context, provider llm.Provider, log *zap.Logger) llm.Client {
	if c, ok := b.clients[provider]; ok {
		return c
	}

	key := b.apiKey(provider)
	if key == "" {
		log.Warn("no API key configured, capability disabled", zap.String("provider", string(provider)))
		b.clients[provider] = nil
		return nil
	}

	c, err := llm.NewClient(ctx, b.llmConfig(provider), key)
	if err != nil {
		log.Warn("failed to create LLM client", zap.String("provider", string(provider)), zap.Error(err))
		b.clients[provider] = nil
		return nil
	}
	b.clients[provider] = c
	b.providers.closers = append(b.providers.closers, c.Close)
	return c
}

func (b *builder) apiKey(provider llm.Provider) string {
	switch provider {
	case llm.ProviderOpenAI:
		return b.cfg.LLM.OpenAIAPIKey
	case llm.ProviderAnthropic:
		return b.cfg.LLM.AnthropicAPIKey
	default:
		return b.cfg.LLM.GeminiAPIKey
	}
}

func (b *builder) llmConfig(provider llm.Provider) *llm.Config {
	c := llm.ConfigFor(provider)
	// Tier overrides apply to the primary provider only.
	if provider == llm.Provider(b.cfg.LLM.Provider) {
		c = c.WithModel(llm.TierLite, b.cfg.LLM.LiteModel).
			WithModel(llm.TierStandard, b.cfg.LLM.StandardModel).
			WithModel(llm.TierAdvanced, b.cfg.LLM.AdvancedModel)
	}
	if provider == llm.ProviderOpenAI {
		c.BaseURL = b.cfg.LLM.OpenAIBaseURL
	}
	if b.cfg.Assistant.MaxTokens > 0 {
		c.MaxTokens = b.cfg.Assistant.MaxTokens
	}
	return c
}

func (b *builder) embedding(ctx context.Context, log *zap.Logger) embedding.Provider {
	ec := b.cfg.Embedding
	unavailable := embedding.NewUnavailable(ec.Dimension)
	if ec.Provider == "" || ec.Provider == ProviderNone {
		return unavailable
	}

	provider := llm.Provider(ec.Provider)
	c := b.client(ctx, provider, log)
	if c == nil {
		return unavailable
	}
	backend, ok := c.(llm.Embedder)
	if !ok {
		log.Warn("provider does not serve embeddings", zap.String("provider", ec.Provider))
		return unavailable
	}

	model := ec.Model
	if model == "" {
		model = defaultEmbeddingModels[provider]
	}
	var p embedding.Provider = embedding.NewModelProvider(backend, model, ec.Dimension, log)

	if url := b.cfg.Cache.RedisURL; url != "" {
		if cache := b.redis(ctx, url, ec.CacheTTL, log); cache != nil {
			p = embedding.NewCached(p, cache, log)
		}
	}
	return p
}

func (b *builder) redis(ctx context.Context, url string, ttl time.Duration, log *zap.Logger) *embedding.RedisCache {
	cache, err := embedding.NewRedisCache(url, ttl)
	if err != nil {
		log.Warn("invalid redis url, embedding cache disabled", zap.Error(err))
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, embedding cache disabled", zap.Error(err))
		cache.Close()
		return nil
	}
	b.providers.closers = append(b.providers.closers, cache.Close)
	return cache
}

func (b *builder) entities(ctx context.Context, log *zap.Logger) entities.Recognizer {
	if !b.cfg.Entities.Enabled {
		return entities.None{}
	}
	c := b.client(ctx, llm.Provider(b.cfg.LLM.Provider), log)
	if c == nil {
		return entities.None{}
	}
	return entities.NewLLMRecognizer(c, log)
}

func (b *builder) assistant(ctx context.Context, log *zap.Logger) assistant.Assistant {
	provider := b.cfg.Assistant.Provider
	if provider == "" {
		provider = b.cfg.LLM.Provider
	}
	if provider == ProviderNone {
		return assistant.Canned{}
	}
	c := b.client(ctx, llm.Provider(provider), log)
	if c == nil {
		return assistant.Canned{}
	}
	return assistant.NewLLMAssistant(c, log)
}
