// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/pdiddy/slidedeck/internal/httputil"
	"github.com/pdiddy/slidedeck/pkg/types"
)

// Backend sends one instruction and one image to a vision-capable model and
// returns its free-form answer. Tests substitute a fake.
type Backend interface {
	Complete(ctx context.Context, instruction, imageURL string) (string, error)
}

const defaultMaxTokens = 1024

// LLMBackend implements Backend on top of a langchaingo model.
type LLMBackend struct {
	llm       llms.Model
	maxTokens int
}

// NewLLMBackend wraps an existing langchaingo model.
func NewLLMBackend(llm llms.Model) *LLMBackend {
	return &LLMBackend{llm: llm, maxTokens: defaultMaxTokens}
}

// NewOpenAIBackend builds a backend for the OpenAI chat completions API, or
// any compatible server when cfg.BaseURL is set. Requests go through a
// RetryClient so HTTP 429 responses are retried with backoff.
func NewOpenAIBackend(cfg types.AIConfig, client *httputil.RetryClient) (*LLMBackend, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai backend: empty API key")
	}
	model := cfg.Model
	if model == "" {
		model = types.DefaultModel
	}

	opts := []openai.Option{
		openai.WithModel(model),
		openai.WithToken(cfg.APIKey),
	}
	if client != nil {
		opts = append(opts, openai.WithHTTPClient(client))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	return NewLLMBackend(llm), nil
}

// Complete implements Backend.
func (b *LLMBackend) Complete(ctx context.Context, instruction, imageURL string) (string, error) {
	msgs := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(instruction),
				llms.ImageURLPart(imageURL),
			},
		},
	}

	resp, err := b.llm.GenerateContent(ctx, msgs, llms.WithMaxTokens(b.maxTokens))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("model returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
