package repository

import (
	"context"

	"telegram-homework-agent/internal/domain/model"
)

type TeacherRepository interface {
	// Save upserts by ID.
	Save(ctx context.Context, tx Tx, t *model.Teacher) error
	FindByTelegramID(ctx context.Context, tx Tx, tgID int64) (*model.Teacher, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.Teacher, error)
	CountTeachers(ctx context.Context, tx Tx) (int, error)
}
