//go:build !integration

package ai_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"

	"telegram-homework-agent/internal/domain/ports/adapter"
	ai "telegram-homework-agent/internal/infra/adapters/ai"
)

type stubGen struct {
	calls int
	text  string
	err   error
}

func (s *stubGen) Generate(ctx context.Context, req adapter.HomeworkRequest) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubGen) CountTokens(ctx context.Context, req adapter.HomeworkRequest) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.text), nil
}

func silentLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

func TestMultiAdapter(t *testing.T) {
	ctx := context.Background()
	req := adapter.HomeworkRequest{Subject: "Math", Topic: "Algebra", Level: "AP", NumQuestions: 3, DueDate: "2026-09-15"}

	t.Run("first healthy provider wins", func(t *testing.T) {
		first := &stubGen{text: "from-first"}
		second := &stubGen{text: "from-second"}
		m := ai.NewMultiAdapter(silentLogger()).Add("first", first).Add("second", second)

		text, err := m.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if text != "from-first" {
			t.Errorf("expected first provider's output, got %q", text)
		}
		if second.calls != 0 {
			t.Errorf("second provider must not be called, got %d calls", second.calls)
		}
	})

	t.Run("falls through to the next provider on failure", func(t *testing.T) {
		first := &stubGen{err: errors.New("quota exceeded")}
		second := &stubGen{text: "from-second"}
		m := ai.NewMultiAdapter(silentLogger()).Add("first", first).Add("second", second)

		text, err := m.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if text != "from-second" {
			t.Errorf("expected fallthrough output, got %q", text)
		}
		if first.calls != 1 || second.calls != 1 {
			t.Errorf("expected both providers tried once, got %d/%d", first.calls, second.calls)
		}
	})

	t.Run("returns the last error when every provider fails", func(t *testing.T) {
		lastErr := errors.New("all down")
		m := ai.NewMultiAdapter(silentLogger()).
			Add("first", &stubGen{err: errors.New("first down")}).
			Add("second", &stubGen{err: lastErr})

		if _, err := m.Generate(ctx, req); !errors.Is(err, lastErr) {
			t.Errorf("expected last provider error, got %v", err)
		}
	})

	t.Run("errors with no providers configured", func(t *testing.T) {
		m := ai.NewMultiAdapter(silentLogger())
		if m.Len() != 0 {
			t.Fatalf("expected empty adapter, got %d providers", m.Len())
		}
		if _, err := m.Generate(ctx, req); err == nil {
			t.Error("expected an error with no providers")
		}
	})
}
