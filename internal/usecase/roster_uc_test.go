//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"telegram-homework-agent/internal/domain"
	"telegram-homework-agent/internal/usecase"
)

func TestRosterUseCase(t *testing.T) {
	ctx := context.Background()
	const teacherID = "teacher-1"

	t.Run("should add and list students", func(t *testing.T) {
		repo := NewMockStudentRepo()
		uc := usecase.NewRosterUseCase(repo)

		if _, err := uc.AddStudent(ctx, teacherID, "Alice", "alice@example.com"); err != nil {
			t.Fatalf("AddStudent: %v", err)
		}
		if _, err := uc.AddStudent(ctx, teacherID, "Bob", "bob@example.com"); err != nil {
			t.Fatalf("AddStudent: %v", err)
		}

		students, err := uc.ListStudents(ctx, teacherID)
		if err != nil {
			t.Fatalf("ListStudents: %v", err)
		}
		if len(students) != 2 {
			t.Errorf("expected 2 students, got %d", len(students))
		}
	})

	t.Run("re-adding an email should update the name, not grow the roster", func(t *testing.T) {
		repo := NewMockStudentRepo()
		uc := usecase.NewRosterUseCase(repo)

		if _, err := uc.AddStudent(ctx, teacherID, "Alice", "alice@example.com"); err != nil {
			t.Fatalf("AddStudent: %v", err)
		}
		if _, err := uc.AddStudent(ctx, teacherID, "Alice Cooper", "ALICE@example.com"); err != nil {
			t.Fatalf("re-add: %v", err)
		}

		students, err := uc.ListStudents(ctx, teacherID)
		if err != nil {
			t.Fatalf("ListStudents: %v", err)
		}
		if len(students) != 1 {
			t.Fatalf("duplicate email grew the roster: %d entries", len(students))
		}
		if students[0].Name != "Alice Cooper" {
			t.Errorf("expected updated name, got %s", students[0].Name)
		}
	})

	t.Run("should reject an invalid email", func(t *testing.T) {
		repo := NewMockStudentRepo()
		uc := usecase.NewRosterUseCase(repo)

		if _, err := uc.AddStudent(ctx, teacherID, "Alice", "nope"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("removing a missing email should return zero without error", func(t *testing.T) {
		repo := NewMockStudentRepo()
		uc := usecase.NewRosterUseCase(repo)

		n, err := uc.RemoveStudent(ctx, teacherID, "ghost@example.com")
		if err != nil {
			t.Fatalf("RemoveStudent: %v", err)
		}
		if n != 0 {
			t.Errorf("expected 0 removed, got %d", n)
		}
	})

	t.Run("should remove an existing student by email", func(t *testing.T) {
		repo := NewMockStudentRepo()
		uc := usecase.NewRosterUseCase(repo)

		if _, err := uc.AddStudent(ctx, teacherID, "Alice", "alice@example.com"); err != nil {
			t.Fatalf("AddStudent: %v", err)
		}
		n, err := uc.RemoveStudent(ctx, teacherID, "Alice@Example.com")
		if err != nil {
			t.Fatalf("RemoveStudent: %v", err)
		}
		if n != 1 {
			t.Errorf("expected 1 removed, got %d", n)
		}
		students, _ := uc.ListStudents(ctx, teacherID)
		if len(students) != 0 {
			t.Errorf("roster not empty after removal: %d", len(students))
		}
	})
}
