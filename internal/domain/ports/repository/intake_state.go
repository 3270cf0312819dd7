package repository

import (
	"context"

	"telegram-homework-agent/internal/domain/model"
)

// IntakeStateRepository stores the per-conversation intake session between
// Telegram turns. Sessions are ephemeral: implementations expire them after
// an idle TTL, and the intake flow clears them on completion or cancel.
// Get returns domain.ErrNoIntakeSession when no session is stored.
type IntakeStateRepository interface {
	Set(ctx context.Context, tgID int64, s *model.IntakeSession) error
	Get(ctx context.Context, tgID int64) (*model.IntakeSession, error)
	Clear(ctx context.Context, tgID int64) error
}
