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
	assert.Equal(t, DefaultEmbeddingModel, config.EmbeddingModel)
}

func TestModelChain_Lite(t *testing.T) {
	chain := DefaultConfig().ModelChain(TierLite)
	assert.Equal(t, []string{"gemini-2.5-flash-lite", "gemini-2.5-flash", "gemini-1.5-flash-latest"}, chain)
}

func TestModelChain_StandardHasFiveModels(t *testing.T) {
	chain := DefaultConfig().ModelChain(TierStandard)
	assert.Len(t, chain, 5)
	assert.Equal(t, "gemini-2.5-flash", chain[0])
}

func TestModelChain_Dedup(t *testing.T) {
	config := &Config{
		Models: map[ModelTier]string{TierLite: "a"},
		Chains: map[ModelTier][]string{TierLite: {"a", "b", "", "b"}},
	}
	assert.Equal(t, []string{"a", "b"}, config.ModelChain(TierLite))
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
	assert.Empty(t, config.ModelChain(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	// Original should be unchanged
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, config.GetModel(TierLite), newConfig.GetModel(TierLite))
	assert.Equal(t, config.EmbeddingModel, newConfig.EmbeddingModel)
}
