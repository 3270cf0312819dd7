package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-homework-agent/internal/domain"
	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

var _ repository.HomeworkJobRepository = (*homeworkJobRepo)(nil)

type homeworkJobRepo struct {
	pool *pgxpool.Pool
}

func NewHomeworkJobRepo(pool *pgxpool.Pool) *homeworkJobRepo {
	return &homeworkJobRepo{pool: pool}
}

func (r *homeworkJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.HomeworkJob) error {
	const q = `
INSERT INTO homework_jobs
  (id, teacher_id, subject, topic, level, num_questions, due_date, artifact_path, status, last_error, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);
`
	_, err := execSQL(ctx, r.pool, tx, q,
		job.ID, job.TeacherID, job.Subject, job.Topic, job.Level, job.NumQuestions,
		job.DueDate, nullIfEmpty(job.ArtifactPath), string(job.Status), job.LastError, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *homeworkJobRepo) Update(ctx context.Context, tx repository.Tx, job *model.HomeworkJob) error {
	job.UpdatedAt = time.Now()
	const q = `
UPDATE homework_jobs
   SET artifact_path=$2, status=$3, last_error=$4, updated_at=$5
 WHERE id=$1;
`
	tag, err := execSQL(ctx, r.pool, tx, q,
		job.ID, nullIfEmpty(job.ArtifactPath), string(job.Status), job.LastError, job.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *homeworkJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.HomeworkJob, error) {
	const q = `
SELECT id, teacher_id, subject, topic, level, num_questions, due_date,
       COALESCE(artifact_path, ''), status, last_error, created_at, updated_at
  FROM homework_jobs WHERE id=$1;
`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var j model.HomeworkJob
	var statusStr string
	if err := row.Scan(&j.ID, &j.TeacherID, &j.Subject, &j.Topic, &j.Level, &j.NumQuestions,
		&j.DueDate, &j.ArtifactPath, &statusStr, &j.LastError, &j.CreatedAt, &j.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	j.Status = model.JobStatus(statusStr)
	return &j, nil
}

func (r *homeworkJobRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.JobStatus]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT status, COUNT(*) FROM homework_jobs GROUP BY status;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[model.JobStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[model.JobStatus(status)] = n
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
