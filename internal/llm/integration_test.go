//go:build integration

package llm

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_GenerateEmbedding_RealAPI(t *testing.T) {
	client, err := NewEmbeddingClientFromEnv()
	if err != nil {
		t.Skip("CLASSMATE_OPENAI_API_KEY not set, skipping integration test")
	}

	embedding, err := client.GenerateEmbedding(context.Background(), "The tuck shop opens at first break.")

	require.NoError(t, err)
	assert.Len(t, embedding, DefaultEmbeddingDimensions)
}

func TestIntegration_OpenRouter_Complete(t *testing.T) {
	apiKey := os.Getenv("CLASSMATE_OPENROUTER_API_KEY")
	if apiKey == "" {
		t.Skip("CLASSMATE_OPENROUTER_API_KEY not set, skipping integration test")
	}

	client := NewOpenRouterClient(apiKey, "")
	reply, err := client.Complete(context.Background(), CompletionRequest{Prompt: "What is 2 + 2? Answer in one word.", MaxTokens: 32})

	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}
