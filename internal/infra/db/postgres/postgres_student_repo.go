package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

var _ repository.StudentRepository = (*PostgresStudentRepo)(nil)

type PostgresStudentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresStudentRepo(pool *pgxpool.Pool) *PostgresStudentRepo {
	return &PostgresStudentRepo{pool: pool}
}

// Upsert relies on the (teacher_id, email) unique constraint so re-adding an
// address only refreshes the stored name.
func (r *PostgresStudentRepo) Upsert(ctx context.Context, tx repository.Tx, s *model.Student) error {
	const q = `
INSERT INTO students (id, teacher_id, name, email, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (teacher_id, email) DO UPDATE SET name=EXCLUDED.name;
`
	_, err := execSQL(ctx, r.pool, tx, q, s.ID, s.TeacherID, s.Name, s.Email, s.CreatedAt)
	return err
}

func (r *PostgresStudentRepo) Remove(ctx context.Context, tx repository.Tx, teacherID, email string) (int, error) {
	const q = `DELETE FROM students WHERE teacher_id=$1 AND email=$2;`
	tag, err := execSQL(ctx, r.pool, tx, q, teacherID, model.NormalizeEmail(email))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *PostgresStudentRepo) ListByTeacher(ctx context.Context, tx repository.Tx, teacherID string) ([]*model.Student, error) {
	const q = `
SELECT id, teacher_id, name, email, created_at
  FROM students WHERE teacher_id=$1 ORDER BY name;
`
	rows, err := queryRows(ctx, r.pool, tx, q, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Student
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.TeacherID, &s.Name, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

func (r *PostgresStudentRepo) CountStudents(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM students;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return n, nil
}
