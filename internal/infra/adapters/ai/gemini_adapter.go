package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

var _ adapter.ContentGenerator = (*GeminiAdapter)(nil)

// GeminiAdapter generates homework content using the official Gemini SDK.
type GeminiAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model}, nil
}

func (g *GeminiAdapter) Generate(ctx context.Context, req adapter.HomeworkRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildUserPrompt(req)), cfg)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

func (g *GeminiAdapter) CountTokens(ctx context.Context, req adapter.HomeworkRequest) (int, error) {
	contents := genai.Text(systemPrompt + "\n" + buildUserPrompt(req))
	resp, err := g.client.Models.CountTokens(ctx, g.model, contents, nil)
	if err != nil {
		return 0, err
	}
	return int(resp.TotalTokens), nil
}
