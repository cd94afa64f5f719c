// Package config loads layered application configuration: built-in defaults,
// an optional YAML file, then COCKTAIL_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override (COCKTAIL_SERVER_PORT -> server.port).
const EnvPrefix = "COCKTAIL_"

// ConfigPathEnvVar names the config file when no explicit path is given.
const ConfigPathEnvVar = "COCKTAIL_CONFIG"

// DefaultConfigPaths are searched in order when no path is given.
var DefaultConfigPaths = []string{
	"cocktail.yaml",
	"cocktail.yml",
	"config/cocktail.yaml",
}

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Knowledge KnowledgeConfig `koanf:"knowledge"`
	Profiler  ProfilerConfig  `koanf:"profiler"`
	Recipes   RecipesConfig   `koanf:"recipes"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit   int      `koanf:"rate_limit" validate:"min=0"`
	CORSOrigins []string `koanf:"cors_origins"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// LLMConfig configures the generative model client.
type LLMConfig struct {
	// APIKey falls back to GEMINI_API_KEY then GOOGLE_API_KEY.
	APIKey string `koanf:"api_key"`
	// ProfileModels is the ordered chain for ingredient profile inference.
	ProfileModels []string `koanf:"profile_models" validate:"dive,required"`
	// RecipeModels is the ordered chain for recipe generation.
	RecipeModels   []string      `koanf:"recipe_models" validate:"dive,required"`
	EmbeddingModel string        `koanf:"embedding_model" validate:"required"`
	Temperature    float64       `koanf:"temperature" validate:"min=0,max=2"`
	Breaker        BreakerConfig `koanf:"breaker"`
}

// BreakerConfig configures the circuit breaker in front of the model API.
type BreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MinRequests  uint32        `koanf:"min_requests" validate:"min=1"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
	OpenTimeout  time.Duration `koanf:"open_timeout" validate:"gt=0"`
}

// EmbeddingConfig selects the embedding backend.
type EmbeddingConfig struct {
	// Provider is auto (gemini when an API key is present, else lexical), gemini or lexical.
	Provider   string `koanf:"provider" validate:"oneof=auto gemini lexical"`
	Dimensions int    `koanf:"dimensions" validate:"min=16,max=4096"`
	// CachePath is the SQLite vector cache; empty keeps vectors in memory only.
	CachePath string `koanf:"cache_path"`
}

// KnowledgeConfig locates the ingredient knowledge base.
type KnowledgeConfig struct {
	// Path to a known-ingredients JSON file; empty uses the embedded default.
	Path string `koanf:"path"`
}

// ProfilerConfig tunes ingredient resolution.
type ProfilerConfig struct {
	CachePath           string        `koanf:"cache_path"`
	SimilarityThreshold float64       `koanf:"similarity_threshold" validate:"gt=0,lte=1"`
	GenerativeTimeout   time.Duration `koanf:"generative_timeout" validate:"gt=0"`
	// CacheFallback also persists category-fallback profiles.
	CacheFallback bool `koanf:"cache_fallback"`
	Concurrency   int  `koanf:"concurrency" validate:"min=1,max=64"`
}

// RecipesConfig configures recipe generation and its cache.
type RecipesConfig struct {
	Backend     string `koanf:"backend" validate:"oneof=file sqlite postgres none"`
	Path        string `koanf:"path"`
	DatabaseURL string `koanf:"database_url"`
	// MaxEntries bounds the cache; 0 means unbounded. Oldest entries are evicted first.
	MaxEntries        int           `koanf:"max_entries" validate:"min=0"`
	GenerationTimeout time.Duration `koanf:"generation_timeout" validate:"gt=0"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       120,
			CORSOrigins:     []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		LLM: LLMConfig{
			ProfileModels: []string{"gemini-2.5-flash-lite", "gemini-2.5-flash", "gemini-1.5-flash-latest"},
			RecipeModels: []string{
				"gemini-2.5-flash",
				"gemini-2.5-flash-lite",
				"gemini-2.5-pro",
				"gemini-1.5-flash-latest",
				"gemini-1.5-pro-latest",
			},
			EmbeddingModel: "text-embedding-004",
			Temperature:    0.1,
			Breaker: BreakerConfig{
				Enabled:      true,
				MinRequests:  5,
				FailureRatio: 0.6,
				OpenTimeout:  time.Minute,
			},
		},
		Embedding: EmbeddingConfig{
			Provider:   "auto",
			Dimensions: 256,
			CachePath:  ".cocktail/embeddings.db",
		},
		Profiler: ProfilerConfig{
			CachePath:           ".cocktail/profile_cache.json",
			SimilarityThreshold: 0.75,
			GenerativeTimeout:   20 * time.Second,
			Concurrency:         4,
		},
		Recipes: RecipesConfig{
			Backend:           "file",
			Path:              ".cocktail/recipes.json",
			MaxEntries:        1000,
			GenerationTimeout: 30 * time.Second,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (or a discovered one when path is empty) and environment overrides.
// An explicit path that cannot be read is an error.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	switch c.Recipes.Backend {
	case "postgres":
		if c.Recipes.DatabaseURL == "" {
			return fmt.Errorf("config error: 'recipes.database_url' is required for the postgres backend")
		}
	case "file", "sqlite":
		if c.Recipes.Path == "" {
			return fmt.Errorf("config error: 'recipes.path' is required for the %s backend", c.Recipes.Backend)
		}
	}

	if c.Embedding.Provider == "gemini" && c.LLM.APIKey == "" {
		return fmt.Errorf("config error: embedding provider 'gemini' requires an API key")
	}

	if c.Knowledge.Path != "" {
		if _, err := os.Stat(c.Knowledge.Path); err != nil {
			return fmt.Errorf("config error: knowledge base file not found: %s", c.Knowledge.Path)
		}
	}
	return nil
}

// HasAPIKey reports whether generative features can be enabled.
func (c *Config) HasAPIKey() bool {
	return c.LLM.APIKey != ""
}

// EmbeddingProvider resolves "auto" to a concrete provider name.
func (c *Config) EmbeddingProvider() string {
	if c.Embedding.Provider != "auto" {
		return c.Embedding.Provider
	}
	if c.HasAPIKey() {
		return "gemini"
	}
	return "lexical"
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps COCKTAIL_SECTION_FIELD_NAME to section.field_name.
// Returning "" skips the variable.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(key, "_")
	if !ok || field == "" {
		return ""
	}
	switch section {
	case "server", "log", "llm", "embedding", "knowledge", "profiler", "recipes", "metrics":
	default:
		return ""
	}
	// Nested breaker settings: COCKTAIL_LLM_BREAKER_ENABLED -> llm.breaker.enabled
	if section == "llm" && strings.HasPrefix(field, "breaker_") {
		return "llm.breaker." + strings.TrimPrefix(field, "breaker_")
	}
	return section + "." + field
}

var sliceConfigPaths = []string{
	"server.cors_origins",
	"llm.profile_models",
	"llm.recipe_models",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var parts []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}
