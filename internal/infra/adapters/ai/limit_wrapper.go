package ai

import (
	"context"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.ContentGenerator = (*limitedGenerator)(nil)

type limitedGenerator struct {
	inner adapter.ContentGenerator
	sem   chan struct{}
}

// NewLimitedGenerator caps concurrent calls to the wrapped generator.
func NewLimitedGenerator(inner adapter.ContentGenerator, maxConcurrent int) adapter.ContentGenerator {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedGenerator{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedGenerator) Generate(ctx context.Context, req adapter.HomeworkRequest) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Generate(ctx, req)
}

func (l *limitedGenerator) CountTokens(ctx context.Context, req adapter.HomeworkRequest) (int, error) {
	return l.inner.CountTokens(ctx, req)
}
