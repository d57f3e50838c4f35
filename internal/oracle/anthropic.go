package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel     = "claude-sonnet-4-5"
	defaultAnthropicMaxTokens = 4096
)

// Anthropic generates code through the Anthropic messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic creates an Anthropic-backed oracle.
func NewAnthropic(apiKey, baseURL, model string) (*Anthropic, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic oracle: missing api key")
	}
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	if strings.TrimSpace(model) == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: defaultAnthropicMaxTokens,
	}, nil
}

func (a *Anthropic) GenerateCode(ctx context.Context, narrative string) (string, error) {
	return a.message(ctx, generateSystemPrompt, narrative)
}

func (a *Anthropic) FixCode(ctx context.Context, code, errorSummary string) (string, error) {
	return a.message(ctx, fixSystemPrompt, fixUserPrompt(code, errorSummary))
}

func (a *Anthropic) message(ctx context.Context, system, user string) (string, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(tb.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("anthropic message: empty response")
	}
	return stripFences(sb.String()), nil
}
