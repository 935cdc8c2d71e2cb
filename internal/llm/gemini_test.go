package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type MockContentGenerator struct {
	mock.Mock
}

func (m *MockContentGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, model, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: genai.RoleModel, Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiClient_Complete(t *testing.T) {
	models := new(MockContentGenerator)
	client := newGeminiClient(models, "")

	models.On("GenerateContent", mock.Anything, DefaultGeminiModel,
		mock.MatchedBy(func(contents []*genai.Content) bool {
			return len(contents) == 1 && contents[0].Parts[0].Text == "When does school start?"
		}),
		mock.MatchedBy(func(cfg *genai.GenerateContentConfig) bool {
			return cfg.MaxOutputTokens == 400 && cfg.Temperature != nil && *cfg.Temperature == float32(0.3)
		}),
	).Return(textResponse("School starts at 7:30am."), nil)

	reply, err := client.Complete(context.Background(), CompletionRequest{
		Prompt:      "When does school start?",
		MaxTokens:   400,
		Temperature: 0.3,
	})

	require.NoError(t, err)
	assert.Equal(t, "School starts at 7:30am.", reply)
	models.AssertExpectations(t)
}

func TestGeminiClient_Complete_Error(t *testing.T) {
	models := new(MockContentGenerator)
	client := newGeminiClient(models, "gemini-test")

	models.On("GenerateContent", mock.Anything, "gemini-test", mock.Anything, mock.Anything).
		Return(nil, errors.New("quota exceeded"))

	_, err := client.Complete(context.Background(), CompletionRequest{Prompt: "Hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini-test")
}

func TestGeminiClient_Complete_EmptyPrompt(t *testing.T) {
	client := newGeminiClient(new(MockContentGenerator), "")

	_, err := client.Complete(context.Background(), CompletionRequest{})

	assert.Equal(t, ErrEmptyPrompt, err)
}
