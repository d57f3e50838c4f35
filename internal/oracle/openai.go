package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates code through the OpenAI chat completions API, or any
// compatible gateway when a base URL is given.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI creates an OpenAI-backed oracle.
func NewOpenAI(apiKey, baseURL, model string) (*OpenAI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai oracle: missing api key")
	}
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSpace(baseURL)))
	}
	if strings.TrimSpace(model) == "" {
		model = defaultOpenAIModel
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (o *OpenAI) GenerateCode(ctx context.Context, narrative string) (string, error) {
	return o.chat(ctx, generateSystemPrompt, narrative)
}

func (o *OpenAI) FixCode(ctx context.Context, code, errorSummary string) (string, error) {
	return o.chat(ctx, fixSystemPrompt, fixUserPrompt(code, errorSummary))
}

func (o *OpenAI) chat(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat: empty response")
	}
	return stripFences(resp.Choices[0].Message.Content), nil
}
