package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/jonathan/cocktail-advisor/internal/metrics"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content with the named model
	GenerateContent(ctx context.Context, prompt string, model string) (string, error)
	// GenerateJSON generates JSON content with the named model
	GenerateJSON(ctx context.Context, prompt string, model string) (string, error)
	// ModelChain returns the ordered fallback models for a tier
	ModelChain(tier ModelTier) []string
	// Close releases any resources held by the client
	Close() error
}

// Embedder is implemented by clients that can also produce text embeddings.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingModel() string
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if config == nil {
		config = DefaultConfig()
	}
	return NewGeminiClient(ctx, config, apiKey)
}

// GeminiClient implements Client and Embedder for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates text content with the named model
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, modelName string) (string, error) {
	return c.generate(ctx, prompt, modelName, false)
}

// GenerateJSON generates JSON content with the named model
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, modelName string) (string, error) {
	text, err := c.generate(ctx, prompt, modelName, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt, modelName string, jsonMode bool) (string, error) {
	if modelName == "" {
		return "", &APICallError{Message: "no model name"}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	if jsonMode {
		model.ResponseMIMEType = "application/json"
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	metrics.LLMRequestDuration.WithLabelValues(modelName).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LLMRequests.WithLabelValues(modelName, "error").Inc()
		return "", &APICallError{Model: modelName, Message: "generate content", Cause: err}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		metrics.LLMRequests.WithLabelValues(modelName, "empty").Inc()
		return "", &ParseError{Model: modelName, Message: "read response", Cause: err}
	}
	metrics.LLMRequests.WithLabelValues(modelName, "ok").Inc()
	return text, nil
}

// ModelChain returns the ordered fallback models for a tier
func (c *GeminiClient) ModelChain(tier ModelTier) []string {
	return c.config.ModelChain(tier)
}

// EmbeddingModel returns the configured embedding model name
func (c *GeminiClient) EmbeddingModel() string {
	return c.config.EmbeddingModel
}

// EmbedTexts embeds texts in one batch call, preserving order.
func (c *GeminiClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	em := c.client.EmbeddingModel(c.config.EmbeddingModel)
	em.TaskType = genai.TaskTypeSemanticSimilarity

	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}
	resp, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, &APICallError{Model: c.config.EmbeddingModel, Message: "batch embed", Cause: err}
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, &ParseError{
			Model:   c.config.EmbeddingModel,
			Message: fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)),
		}
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		if e == nil {
			return nil, &ParseError{Model: c.config.EmbeddingModel, Message: fmt.Sprintf("missing embedding %d", i)}
		}
		out[i] = e.Values
	}
	return out, nil
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", fmt.Errorf("no text parts in response")
	}
	return text, nil
}
