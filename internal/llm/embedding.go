package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used to embed corpus chunks
	DefaultEmbeddingModel = openai.AdaEmbeddingV2
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from ada-002
	DefaultEmbeddingDimensions = 1536
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when embedding has wrong dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// EmbeddingAPI defines the interface for embedding generation
type EmbeddingAPI interface {
	CreateEmbeddings(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingClient embeds knowledge chunks and learner queries for semantic search.
type EmbeddingClient struct {
	api        EmbeddingAPI
	model      string
	dimensions int
}

// OpenAIEmbeddingAdapter calls the OpenAI embeddings endpoint.
type OpenAIEmbeddingAdapter struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbeddingAdapter(apiKey string, model openai.EmbeddingModel) *OpenAIEmbeddingAdapter {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIEmbeddingAdapter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// CreateEmbeddings calls the OpenAI API to create embeddings
func (a *OpenAIEmbeddingAdapter) CreateEmbeddings(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: a.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

type EmbeddingConfig struct {
	APIKey     string
	Model      openai.EmbeddingModel
	Dimensions int
}

// NewEmbeddingClient creates an OpenAI embedding client using defaults.
func NewEmbeddingClient(apiKey string) *EmbeddingClient {
	return NewEmbeddingClientWithConfig(EmbeddingConfig{APIKey: apiKey})
}

// NewEmbeddingClientWithConfig creates an embedding client with explicit configuration.
func NewEmbeddingClientWithConfig(cfg EmbeddingConfig) *EmbeddingClient {
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	model := cfg.Model
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &EmbeddingClient{
		api:        NewOpenAIEmbeddingAdapter(cfg.APIKey, model),
		model:      string(model),
		dimensions: dimensions,
	}
}

// Model returns the embedding model name, used as the cache key namespace.
func (c *EmbeddingClient) Model() string {
	return c.model
}

// GenerateEmbedding generates an embedding for the given text
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embedding, err := c.api.CreateEmbeddings(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}

	expected := c.dimensions
	if expected <= 0 {
		expected = DefaultEmbeddingDimensions
	}
	if len(embedding) != expected {
		return nil, ErrWrongDimensions
	}

	return embedding, nil
}
