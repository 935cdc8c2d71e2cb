package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/classmate/internal/telemetry"
	"google.golang.org/genai"
)

// DefaultGeminiModel answers default chat turns.
const DefaultGeminiModel = "gemini-2.0-flash"

// ContentGenerator is the subset of genai.Models used here.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient answers prompts with a Gemini model.
type GeminiClient struct {
	models ContentGenerator
	model  string
}

// NewGeminiClient creates a Gemini client for the Gemini API backend.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiClient(client.Models, model), nil
}

func newGeminiClient(models ContentGenerator, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{models: models, model: model}
}

func (c *GeminiClient) Name() string { return c.model }

// Complete generates a single reply for the prompt.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}
	ctx, span := telemetry.StartSpan(ctx, "llm.gemini", telemetry.SpanAttributes{Model: c.model, Operation: "complete"})
	defer span.End()

	config := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(req.Temperature)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}
	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("%s: generate content failed: %w", c.model, err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}
