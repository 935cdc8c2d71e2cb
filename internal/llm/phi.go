package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloo-solutions/classmate/internal/telemetry"
	"github.com/tidwall/gjson"
)

const (
	// DefaultPhiEndpoint is the Hugging Face inference endpoint for Phi-4 reasoning.
	DefaultPhiEndpoint = "https://api-inference.huggingface.co/models/microsoft/phi-4-reasoning-plus"
	// PhiModelName is the name recorded in turn logs for Phi replies.
	PhiModelName = "phi-4"

	maxPhiResponseBytes = 1 << 20
)

// PhiClient calls the Hugging Face text-generation inference API.
type PhiClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewPhiClient creates a Phi client. An empty endpoint uses DefaultPhiEndpoint.
func NewPhiClient(token, endpoint string) *PhiClient {
	if endpoint == "" {
		endpoint = DefaultPhiEndpoint
	}
	return &PhiClient{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *PhiClient) Name() string { return PhiModelName }

type phiRequest struct {
	Inputs     string        `json:"inputs"`
	Parameters phiParameters `json:"parameters"`
}

type phiParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float32 `json:"temperature"`
}

// Complete posts the prompt and returns the generated text.
func (c *PhiClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return "", ErrEmptyPrompt
	}
	ctx, span := telemetry.StartSpan(ctx, "llm.phi", telemetry.SpanAttributes{Model: PhiModelName, Operation: "complete"})
	defer span.End()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	inputs := req.Prompt
	if req.System != "" {
		inputs = req.System + "\n\n" + req.Prompt
	}
	body, err := json.Marshal(phiRequest{
		Inputs:     inputs,
		Parameters: phiParameters{MaxNewTokens: maxTokens, Temperature: temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("phi request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhiResponseBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read phi response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("phi returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		span.SetError(err)
		return "", err
	}

	return ParseGeneratedText(data), nil
}

// ParseGeneratedText reads generated_text from either an object or the
// first element of an array, the two shapes the inference API returns.
func ParseGeneratedText(data []byte) string {
	if !gjson.ValidBytes(data) {
		return ""
	}
	result := gjson.ParseBytes(data)
	if result.IsArray() {
		return result.Get("0.generated_text").String()
	}
	return result.Get("generated_text").String()
}
