package ai

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/spec-kit/support-desk/internal/config"
)

// Fixed sampling parameters for every question.
const (
	Temperature float32 = 0.6
	TopP        float32 = 0.95
	MaxTokens           = 4096
)

// Gateway streams answers from the configured chat-completion provider.
// It is safe for concurrent use.
type Gateway struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewGateway builds a gateway for an OpenAI-compatible endpoint.
func NewGateway(cfg config.AIConfig) *Gateway {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Gateway{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout(),
	}
}

// Ask sends question as a single user message, concatenates the streamed
// fragments and returns the text with reasoning blocks stripped.
// Failures are *Error values wrapping ErrTransient, ErrRejected or ErrMalformedResponse.
func (g *Gateway) Ask(ctx context.Context, question string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		Temperature: Temperature,
		TopP:        TopP,
		MaxTokens:   MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return "", classify(err)
	}
	defer stream.Close()

	var answer strings.Builder
	chunks := 0
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", classify(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		chunks++
		answer.WriteString(resp.Choices[0].Delta.Content)
	}

	if chunks == 0 {
		return "", &Error{Kind: ErrMalformedResponse, Err: errors.New("completion stream carried no choices")}
	}
	return StripReasoning(answer.String()), nil
}
