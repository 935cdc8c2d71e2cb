// Package llm wraps the language-model providers the chat helper talks to:
// OpenRouter (Qwen), OpenAI, Hugging Face (Phi-4) and Google Gemini.
package llm

import (
	"context"
	"errors"
)

// FallbackReply replaces an empty model reply on the routed chat endpoint.
const FallbackReply = "I'm sorry, I couldn't process that request."

// ErrEmptyPrompt is returned when a completion is requested without a prompt.
var ErrEmptyPrompt = errors.New("prompt cannot be empty")

// CompletionRequest is a provider-neutral completion call.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer produces a text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Name identifies the provider and model in logs.
	Name() string
}
