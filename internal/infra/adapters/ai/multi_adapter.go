package ai

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

var _ adapter.ContentGenerator = (*MultiAdapter)(nil)

// MultiAdapter tries each configured provider in order and returns the first
// successful generation. Provider order is wiring-time configuration
// (OpenAI before Gemini by default).
type MultiAdapter struct {
	providers []namedProvider
	log       *zerolog.Logger
}

type namedProvider struct {
	name string
	gen  adapter.ContentGenerator
}

func NewMultiAdapter(log *zerolog.Logger) *MultiAdapter {
	return &MultiAdapter{log: log}
}

func (m *MultiAdapter) Add(name string, gen adapter.ContentGenerator) *MultiAdapter {
	if gen != nil {
		m.providers = append(m.providers, namedProvider{name: name, gen: gen})
	}
	return m
}

// Len reports how many providers are configured.
func (m *MultiAdapter) Len() int { return len(m.providers) }

func (m *MultiAdapter) Generate(ctx context.Context, req adapter.HomeworkRequest) (string, error) {
	var lastErr error
	for _, p := range m.providers {
		text, err := p.gen.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		m.log.Warn().Err(err).Str("provider", p.name).Msg("content generation failed, trying next provider")
	}
	if lastErr == nil {
		lastErr = errors.New("no content generator configured")
	}
	return "", lastErr
}

func (m *MultiAdapter) CountTokens(ctx context.Context, req adapter.HomeworkRequest) (int, error) {
	for _, p := range m.providers {
		if n, err := p.gen.CountTokens(ctx, req); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("no content generator configured")
}
