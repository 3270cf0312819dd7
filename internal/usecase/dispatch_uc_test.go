//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/adapter"
	"telegram-homework-agent/internal/usecase"
)

func mustStudent(t *testing.T, teacherID, name, email string) *model.Student {
	t.Helper()
	s, err := model.NewStudent(teacherID, name, email)
	if err != nil {
		t.Fatalf("NewStudent(%s): %v", email, err)
	}
	return s
}

func TestDispatchUseCase(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()

	msg := adapter.MailMessage{
		FromName:       "Homework Agent",
		FromEmail:      "agent@example.com",
		Subject:        "Math Homework: Fractions (Due 2026-09-15)",
		Body:           "See attachment.",
		AttachmentPath: "/out/homework.pdf",
	}

	t.Run("should return one outcome per student in input order", func(t *testing.T) {
		students := []*model.Student{
			mustStudent(t, "t-1", "Alice", "alice@example.com"),
			mustStudent(t, "t-1", "Bob", "bob@example.com"),
			mustStudent(t, "t-1", "Cara", "cara@example.com"),
		}
		sender := &MockMailSender{}

		uc := usecase.NewDispatchUseCase(sender, 0, logger)
		outcomes := uc.Dispatch(ctx, msg, students)

		if len(outcomes) != len(students) {
			t.Fatalf("expected %d outcomes, got %d", len(students), len(outcomes))
		}
		for i, o := range outcomes {
			if o.Student.Email != students[i].Email {
				t.Errorf("outcome %d out of order: got %s, want %s", i, o.Student.Email, students[i].Email)
			}
			if o.Err != nil {
				t.Errorf("outcome %d: unexpected error %v", i, o.Err)
			}
		}
		if sender.CallCount() != len(students) {
			t.Errorf("expected %d send calls, got %d", len(students), sender.CallCount())
		}
	})

	t.Run("should isolate per-recipient failures", func(t *testing.T) {
		students := []*model.Student{
			mustStudent(t, "t-1", "Alice", "alice@example.com"),
			mustStudent(t, "t-1", "Bob", "bob@example.com"),
			mustStudent(t, "t-1", "Cara", "cara@example.com"),
		}
		sender := &MockMailSender{
			SendFunc: func(ctx context.Context, m adapter.MailMessage) error {
				if m.To == "bob@example.com" {
					return adapter.NewMailError(adapter.MailFailureConnect, errors.New("dial tcp: refused"))
				}
				return nil
			},
		}

		uc := usecase.NewDispatchUseCase(sender, 0, logger)
		outcomes := uc.Dispatch(ctx, msg, students)

		failures := 0
		for _, o := range outcomes {
			if o.Err != nil {
				failures++
				if o.Student.Email != "bob@example.com" {
					t.Errorf("wrong student failed: %s", o.Student.Email)
				}
				if o.FailureKind() != adapter.MailFailureConnect {
					t.Errorf("expected connect failure kind, got %s", o.FailureKind())
				}
			}
		}
		if failures != 1 {
			t.Errorf("expected exactly 1 failure, got %d", failures)
		}
		if sender.CallCount() != len(students) {
			t.Errorf("a failure must not suppress other sends: got %d calls", sender.CallCount())
		}
	})

	t.Run("should address each message to its own recipient", func(t *testing.T) {
		students := []*model.Student{
			mustStudent(t, "t-1", "Alice", "alice@example.com"),
			mustStudent(t, "t-1", "Bob", "bob@example.com"),
		}
		var mu sync.Mutex
		seen := map[string]bool{}
		sender := &MockMailSender{
			SendFunc: func(ctx context.Context, m adapter.MailMessage) error {
				mu.Lock()
				seen[m.To] = true
				mu.Unlock()
				if m.Subject != msg.Subject || m.AttachmentPath != msg.AttachmentPath {
					t.Errorf("message fields not preserved for %s", m.To)
				}
				return nil
			},
		}

		uc := usecase.NewDispatchUseCase(sender, 0, logger)
		uc.Dispatch(ctx, msg, students)

		if !seen["alice@example.com"] || !seen["bob@example.com"] {
			t.Errorf("not every recipient was addressed: %v", seen)
		}
	})

	t.Run("should respect the concurrency bound", func(t *testing.T) {
		const bound = 2
		students := make([]*model.Student, 8)
		for i := range students {
			students[i] = mustStudent(t, "t-1", "S", string(rune('a'+i))+"@example.com")
		}

		var mu sync.Mutex
		inFlight, peak := 0, 0
		sender := &MockMailSender{
			SendFunc: func(ctx context.Context, m adapter.MailMessage) error {
				mu.Lock()
				inFlight++
				if inFlight > peak {
					peak = inFlight
				}
				mu.Unlock()
				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			},
		}

		uc := usecase.NewDispatchUseCase(sender, bound, logger)
		outcomes := uc.Dispatch(ctx, msg, students)

		if len(outcomes) != len(students) {
			t.Fatalf("expected %d outcomes, got %d", len(students), len(outcomes))
		}
		if peak > bound {
			t.Errorf("concurrency bound exceeded: peak %d > %d", peak, bound)
		}
	})

	t.Run("should handle an empty roster", func(t *testing.T) {
		sender := &MockMailSender{}
		uc := usecase.NewDispatchUseCase(sender, 0, logger)
		outcomes := uc.Dispatch(ctx, msg, nil)
		if len(outcomes) != 0 {
			t.Errorf("expected no outcomes, got %d", len(outcomes))
		}
		if sender.CallCount() != 0 {
			t.Errorf("expected no send calls, got %d", sender.CallCount())
		}
	})
}
