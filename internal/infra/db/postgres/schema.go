package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the three relations if they do not exist yet.
// Versioned migrations are out of scope; the schema is small and additive.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS teachers (
    id             TEXT PRIMARY KEY,
    telegram_id    BIGINT NOT NULL UNIQUE,
    display_name   TEXT NOT NULL DEFAULT '',
    registered_at  TIMESTAMPTZ NOT NULL,
    last_active_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS students (
    id         TEXT PRIMARY KEY,
    teacher_id TEXT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    email      TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (teacher_id, email)
);

CREATE TABLE IF NOT EXISTS homework_jobs (
    id            TEXT PRIMARY KEY,
    teacher_id    TEXT NOT NULL REFERENCES teachers(id) ON DELETE CASCADE,
    subject       TEXT NOT NULL,
    topic         TEXT NOT NULL,
    level         TEXT NOT NULL,
    num_questions INTEGER NOT NULL,
    due_date      TEXT NOT NULL,
    artifact_path TEXT,
    status        TEXT NOT NULL DEFAULT 'created',
    last_error    TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);
`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
