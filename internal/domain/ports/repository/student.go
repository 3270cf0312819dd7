package repository

import (
	"context"

	"telegram-homework-agent/internal/domain/model"
)

type StudentRepository interface {
	// Upsert inserts the student or, when (teacher_id, email) already
	// exists, updates the stored name. The roster size never grows on a
	// duplicate email.
	Upsert(ctx context.Context, tx Tx, s *model.Student) error
	// Remove deletes by (teacher, email) and returns the number of rows
	// removed; removing an absent email is not an error.
	Remove(ctx context.Context, tx Tx, teacherID, email string) (int, error)
	ListByTeacher(ctx context.Context, tx Tx, teacherID string) ([]*model.Student, error)
	CountStudents(ctx context.Context, tx Tx) (int, error)
}
