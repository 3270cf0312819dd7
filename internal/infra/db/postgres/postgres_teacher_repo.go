package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-homework-agent/internal/domain"
	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

var _ repository.TeacherRepository = (*PostgresTeacherRepo)(nil)

type PostgresTeacherRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresTeacherRepo(pool *pgxpool.Pool) *PostgresTeacherRepo {
	return &PostgresTeacherRepo{pool: pool}
}

func (r *PostgresTeacherRepo) Save(ctx context.Context, tx repository.Tx, t *model.Teacher) error {
	const q = `
INSERT INTO teachers (id, telegram_id, display_name, registered_at, last_active_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET
  telegram_id=$2, display_name=$3, last_active_at=$5;
`
	_, err := execSQL(ctx, r.pool, tx, q, t.ID, t.TelegramID, t.DisplayName, t.RegisteredAt, t.LastActiveAt)
	return err
}

func (r *PostgresTeacherRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.Teacher, error) {
	const q = `
SELECT id, telegram_id, display_name, registered_at, last_active_at
  FROM teachers WHERE telegram_id=$1;
`
	return r.scanOne(ctx, tx, q, tgID)
}

func (r *PostgresTeacherRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Teacher, error) {
	const q = `
SELECT id, telegram_id, display_name, registered_at, last_active_at
  FROM teachers WHERE id=$1;
`
	return r.scanOne(ctx, tx, q, id)
}

func (r *PostgresTeacherRepo) CountTeachers(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM teachers;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count teachers: %w", err)
	}
	return n, nil
}

func (r *PostgresTeacherRepo) scanOne(ctx context.Context, tx repository.Tx, q string, arg interface{}) (*model.Teacher, error) {
	row, err := pickRow(ctx, r.pool, tx, q, arg)
	if err != nil {
		return nil, err
	}
	var t model.Teacher
	if err := row.Scan(&t.ID, &t.TelegramID, &t.DisplayName, &t.RegisteredAt, &t.LastActiveAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
