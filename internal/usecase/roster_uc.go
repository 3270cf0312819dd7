package usecase

import (
	"context"
	"fmt"

	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

// RosterUseCase manages a teacher's student roster.
type RosterUseCase struct {
	students repository.StudentRepository
}

func NewRosterUseCase(students repository.StudentRepository) *RosterUseCase {
	return &RosterUseCase{students: students}
}

// AddStudent upserts by (teacher, email): an existing address gets its name
// updated, the roster never grows on a duplicate.
func (uc *RosterUseCase) AddStudent(ctx context.Context, teacherID, name, email string) (*model.Student, error) {
	s, err := model.NewStudent(teacherID, name, email)
	if err != nil {
		return nil, err
	}
	if err := uc.students.Upsert(ctx, repository.NoTX, s); err != nil {
		return nil, fmt.Errorf("upsert student: %w", err)
	}
	return s, nil
}

// RemoveStudent returns how many rows were removed; a missing address yields
// zero rather than an error.
func (uc *RosterUseCase) RemoveStudent(ctx context.Context, teacherID, email string) (int, error) {
	return uc.students.Remove(ctx, repository.NoTX, teacherID, email)
}

func (uc *RosterUseCase) ListStudents(ctx context.Context, teacherID string) ([]*model.Student, error) {
	return uc.students.ListByTeacher(ctx, repository.NoTX, teacherID)
}
