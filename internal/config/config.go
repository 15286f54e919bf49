// Package config provides configuration loading and validation for the service and the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every configuration key when read from the environment,
// e.g. store.driver -> JOBMATCH_STORE_DRIVER.
const EnvPrefix = "JOBMATCH"

// Config is the full service configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Entities   EntitiesConfig   `mapstructure:"entities"`
	Assistant  AssistantConfig  `mapstructure:"assistant"`
	Skills     SkillsConfig     `mapstructure:"skills"`
	Experience ExperienceConfig `mapstructure:"experience"`
	Salary     SalaryConfig     `mapstructure:"salary"`
	Store      StoreConfig      `mapstructure:"store"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Auth       AuthConfig       `mapstructure:"auth"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// LLMConfig holds provider credentials and model names.
type LLMConfig struct {
	Provider        string `mapstructure:"provider"` // gemini | openai | anthropic
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	OpenAIBaseURL   string `mapstructure:"openai_base_url"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	LiteModel       string `mapstructure:"lite_model"`
	StandardModel   string `mapstructure:"standard_model"`
	AdvancedModel   string `mapstructure:"advanced_model"`
}

// EmbeddingConfig selects the embedding oracle.
type EmbeddingConfig struct {
	Provider  string        `mapstructure:"provider"` // gemini | openai | none
	Model     string        `mapstructure:"model"`
	Dimension int           `mapstructure:"dimension"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// EntitiesConfig controls the entity-recognition oracle used for skill augmentation.
type EntitiesConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AssistantConfig selects the text-generation oracle behind /assistant/chat.
type AssistantConfig struct {
	Provider  string `mapstructure:"provider"` // gemini | openai | anthropic | none
	MaxTokens int    `mapstructure:"max_tokens"`
}

// SkillsConfig points at an optional vocabulary file replacing the built-in table.
type SkillsConfig struct {
	VocabularyFile string `mapstructure:"vocabulary_file"`
}

// ExperienceConfig holds the reference year used for open-ended date ranges.
type ExperienceConfig struct {
	ReferenceYear int `mapstructure:"reference_year"`
}

// SalaryConfig holds the salary heuristic's base constants.
type SalaryConfig struct {
	Base     float64 `mapstructure:"base"`
	Currency string  `mapstructure:"currency"`
}

// StoreConfig selects the profile/match store.
type StoreConfig struct {
	Driver         string  `mapstructure:"driver"` // memory | postgres | sqlite
	DSN            string  `mapstructure:"dsn"`
	MatchThreshold float64 `mapstructure:"match_threshold"`
	Concurrency    int     `mapstructure:"concurrency"`
}

// CacheConfig configures the optional Redis embedding cache.
type CacheConfig struct {
	RedisURL string `mapstructure:"redis_url"`
}

// AuthConfig configures bearer-token authentication.
type AuthConfig struct {
	Required        bool   `mapstructure:"required"`
	JWTSecret       string `mapstructure:"jwt_secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// RateLimitConfig configures the per-client token bucket limiter.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// defaults lists every known key; viper only maps environment variables onto keys it knows.
var defaults = map[string]any{
	"server.port":          8000,
	"server.read_timeout":  30 * time.Second,
	"server.write_timeout": 120 * time.Second,
	"server.idle_timeout":  60 * time.Second,

	"log.json":  false,
	"log.debug": false,

	"llm.provider":          "gemini",
	"llm.gemini_api_key":    "",
	"llm.openai_api_key":    "",
	"llm.openai_base_url":   "",
	"llm.anthropic_api_key": "",
	"llm.lite_model":        "",
	"llm.standard_model":    "",
	"llm.advanced_model":    "",

	"embedding.provider":  "gemini",
	"embedding.model":     "",
	"embedding.dimension": 384,
	"embedding.cache_ttl": 24 * time.Hour,

	"entities.enabled": false,

	"assistant.provider":   "",
	"assistant.max_tokens": 1024,

	"skills.vocabulary_file": "",

	"experience.reference_year": 2024,

	"salary.base":     60000.0,
	"salary.currency": "USD",

	"store.driver":          "memory",
	"store.dsn":             "",
	"store.match_threshold": 0.3,
	"store.concurrency":     8,

	"cache.redis_url": "",

	"auth.required":         false,
	"auth.jwt_secret":       "",
	"auth.expiration_hours": 24,

	"ratelimit.enabled":          true,
	"ratelimit.default_limit":    1000,
	"ratelimit.default_window":   time.Minute,
	"ratelimit.cleanup_interval": 5 * time.Minute,
	"ratelimit.whitelist":        []string{},
	"ratelimit.blacklist":        []string{},
}

// legacyEnv maps keys to the unprefixed variable names used by earlier deployments.
var legacyEnv = map[string]string{
	"llm.gemini_api_key":    "GEMINI_API_KEY",
	"llm.openai_api_key":    "OPENAI_API_KEY",
	"llm.anthropic_api_key": "ANTHROPIC_API_KEY",
	"store.dsn":             "DATABASE_URL",
	"auth.jwt_secret":       "JWT_SECRET",
	"cache.redis_url":       "REDIS_URL",
}

// Load reads configuration from defaults, an optional config file and the environment.
// An empty path looks for jobmatch.{yaml,json,toml} in the working directory and
// silently continues without one.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", legacy, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("jobmatch")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("config error: 'embedding.dimension' must be positive")
	}
	if c.Store.MatchThreshold < 0 || c.Store.MatchThreshold > 1 {
		return fmt.Errorf("config error: 'store.match_threshold' must be within [0, 1]")
	}
	if c.Store.Concurrency < 1 {
		return fmt.Errorf("config error: 'store.concurrency' must be at least 1")
	}
	if c.Salary.Base <= 0 {
		return fmt.Errorf("config error: 'salary.base' must be positive")
	}

	switch c.Store.Driver {
	case "memory":
	case "postgres", "sqlite":
		if c.Store.DSN == "" {
			return fmt.Errorf("config error: 'store.dsn' is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("config error: unknown store driver %q", c.Store.Driver)
	}

	if c.Auth.Required && c.Auth.JWTSecret == "" {
		return fmt.Errorf("config error: 'auth.jwt_secret' is required when auth is required")
	}

	return nil
}
