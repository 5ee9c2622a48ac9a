package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"csv-chat-api/pkg/openai"
)

// ErrUpstream marks any failure of the external model service.
var ErrUpstream = errors.New("model service unavailable")

// CompletionClient is the part of the model gateway used by ChatService.
type CompletionClient interface {
	Complete(ctx context.Context, systemRole, prompt string) (string, error)
}

// ModelGateway OpenAI / Azure OpenAI 呼び出しサービス
type ModelGateway struct {
	client    *openai.Client
	maxTokens int
}

// NewModelGateway 新しいModelGatewayを作成
func NewModelGateway(client *openai.Client, maxTokens int) *ModelGateway {
	return &ModelGateway{client: client, maxTokens: maxTokens}
}

// Complete sends one system+user exchange with temperature 0 and returns the first choice's text.
// Every failure is reported as ErrUpstream; there are no retries.
func (g *ModelGateway) Complete(ctx context.Context, systemRole, prompt string) (string, error) {
	messages := []openai.ChatMessage{
		{Role: "system", Content: systemRole},
		{Role: "user", Content: prompt},
	}

	start := time.Now()
	resp, err := g.client.ChatCompletion(ctx, messages, g.maxTokens, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choice list", ErrUpstream)
	}

	log.Printf("🤖 [model] %s replied in %v (tokens: prompt=%d, completion=%d)",
		g.client.Model(), time.Since(start), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	return resp.Choices[0].Message.Content, nil
}
