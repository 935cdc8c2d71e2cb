package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/classmate/internal/telemetry"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// OpenRouterBaseURL is the OpenAI-compatible OpenRouter endpoint.
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	// DefaultOpenRouterModel is the general-purpose model for non-reasoning sections.
	DefaultOpenRouterModel = "qwen/qwen3-30b-a3b:free"
	// DefaultOpenAIChatModel is used by the OpenAI chat provider.
	DefaultOpenAIChatModel = openai.GPT3Dot5Turbo

	defaultMaxTokens   = 512
	defaultTemperature = 0.7
	defaultTopP        = 0.9
)

// HelperSystemPrompt is the persona given to the OpenAI chat provider.
const HelperSystemPrompt = "You are Bryneven Helper, a friendly assistant for primary school students (ages 6-13). " +
	"Answer in simple, clear language. Keep answers short and encouraging."

// ChatCompletionAPI is the subset of the go-openai client used here.
type ChatCompletionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatConfig configures an OpenAI-compatible chat client.
type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// System is prepended as a system message when the request has none.
	System string
	TopP   float32
}

// ChatClient talks to any OpenAI-compatible chat completions endpoint.
type ChatClient struct {
	api    ChatCompletionAPI
	model  string
	system string
	topP   float32
}

// NewChatClient creates a chat client from config.
func NewChatClient(cfg ChatConfig) *ChatClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newChatClient(openai.NewClientWithConfig(clientCfg), cfg)
}

func newChatClient(api ChatCompletionAPI, cfg ChatConfig) *ChatClient {
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIChatModel
	}
	return &ChatClient{api: api, model: model, system: cfg.System, topP: cfg.TopP}
}

// NewOpenRouterClient creates the general-purpose Qwen client.
func NewOpenRouterClient(apiKey, model string) *ChatClient {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	return NewChatClient(ChatConfig{
		APIKey:  apiKey,
		BaseURL: OpenRouterBaseURL,
		Model:   model,
		TopP:    defaultTopP,
	})
}

// NewOpenAIChatClient creates an OpenAI chat client with the helper persona.
func NewOpenAIChatClient(apiKey, model string) *ChatClient {
	return NewChatClient(ChatConfig{
		APIKey: apiKey,
		Model:  model,
		System: HelperSystemPrompt,
	})
}

func (c *ChatClient) Name() string { return c.model }

// Complete sends a single-turn chat completion.
func (c *ChatClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}
	ctx, span := telemetry.StartSpan(ctx, "llm.chat", telemetry.SpanAttributes{Model: c.model, Operation: "complete"})
	defer span.End()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	system := req.System
	if system == "" {
		system = c.system
	}
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        c.topP,
	})
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("%s: chat completion failed: %w", c.model, err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
