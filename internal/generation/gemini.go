package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// #region gemini
const (
	DefaultGeminiModel = "gemini-1.5-flash"
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

// GeminiClient generates text with Google's Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// NewGeminiClient creates a Gemini backend. An empty model selects DefaultGeminiModel.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: defaultTemperature,
		maxTokens:   defaultMaxTokens,
	}, nil
}

// Generate sends one prompt to Gemini.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (Result, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](c.temperature),
		MaxOutputTokens: c.maxTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return Result{}, fmt.Errorf("gemini generate: %w", ErrEmptyResponse)
	}
	return Result{Text: text, Model: c.model}, nil
}

// #endregion gemini
