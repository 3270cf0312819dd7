package repository

import (
	"context"

	"telegram-homework-agent/internal/domain/model"
)

type HomeworkJobRepository interface {
	// Create persists a new job row; jobs are created exactly once.
	Create(ctx context.Context, tx Tx, job *model.HomeworkJob) error
	// Update writes status, artifact path, and last error in place.
	Update(ctx context.Context, tx Tx, job *model.HomeworkJob) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.HomeworkJob, error)
	CountByStatus(ctx context.Context, tx Tx) (map[model.JobStatus]int, error)
}
