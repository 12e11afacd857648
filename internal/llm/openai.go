package llm

import (
	"context"
	"errors"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/opensource-finance/heron/internal/domain"
)

const defaultModel = "gpt-4o-2024-11-20"

// OpenAIClient implements Client on the OpenAI chat-completions API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a client from configuration. BaseURL may point
// at any OpenAI-compatible gateway.
func NewOpenAIClient(cfg domain.LLMConfig) *OpenAIClient {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(apiCfg),
		model:   model,
		timeout: cfg.RequestTimeout,
	}
}

// Complete sends one chat completion and returns the reply text.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		// Sampling stays pinned at zero so the same dossier yields the
		// same verdict. omitempty swallows a literal 0, hence the
		// smallest nonzero float the wire format rounds down to 0.
		Temperature: math.SmallestNonzeroFloat32,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
