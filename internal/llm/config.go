// Package llm provides the generative model client, model fallback chains and
// response cleanup shared by ingredient profiling and recipe generation.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short structured answers such as ingredient profiles
	TierLite ModelTier = "lite"
	// TierStandard is for recipe generation
	TierStandard ModelTier = "standard"
	// TierAdvanced is the last resort for recipe generation
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultEmbeddingModel is the Gemini text embedding model.
const DefaultEmbeddingModel = "text-embedding-004"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Chains lists, per tier, the ordered model identifiers tried when the
	// previous one fails. The tier's primary model is always tried first.
	Chains         map[ModelTier][]string
	EmbeddingModel string
	Temperature    float32
}

// DefaultConfig returns the default configuration (currently Gemini)
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
		Chains: map[ModelTier][]string{
			TierLite: {
				"gemini-2.5-flash",
				"gemini-1.5-flash-latest",
			},
			TierStandard: {
				"gemini-2.5-flash-lite",
				"gemini-2.5-pro",
				"gemini-1.5-flash-latest",
				"gemini-1.5-pro-latest",
			},
		},
		EmbeddingModel: DefaultEmbeddingModel,
		Temperature:    0.1,
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
	return "" // No model configured
}

// ModelChain returns the ordered, de-duplicated list of models to try for a tier.
func (c *Config) ModelChain(tier ModelTier) []string {
	var chain []string
	seen := make(map[string]bool)
	add := func(m string) {
		if m == "" || seen[m] {
			return
		}
		seen[m] = true
		chain = append(chain, m)
	}
	add(c.GetModel(tier))
	for _, m := range c.Chains[tier] {
		add(m)
	}
	return chain
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models))
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}
