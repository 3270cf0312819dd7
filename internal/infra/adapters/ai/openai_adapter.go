package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.ContentGenerator = (*OpenAIAdapter)(nil)

// OpenAIAdapter generates homework content through the Chat Completions API.
type OpenAIAdapter struct {
	client openai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIAdapter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

func (o *OpenAIAdapter) Generate(ctx context.Context, req adapter.HomeworkRequest) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserPrompt(req)),
		},
	})
	if err != nil {
		return "", err
	}
	for _, c := range resp.Choices {
		if content := strings.TrimSpace(c.Message.Content); content != "" {
			return content, nil
		}
	}
	return "", errors.New("no choice content")
}

// CountTokens estimates prompt size with tiktoken; used for logging and the
// concurrency limiter's admission metrics, not for billing.
func (o *OpenAIAdapter) CountTokens(ctx context.Context, req adapter.HomeworkRequest) (int, error) {
	enc, err := tiktoken.EncodingForModel(o.model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}
	n := len(enc.Encode(systemPrompt, nil, nil)) + len(enc.Encode(buildUserPrompt(req), nil, nil))
	return n, nil
}
