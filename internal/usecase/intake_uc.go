package usecase

import (
	"context"
	"errors"
	"fmt"

	"telegram-homework-agent/internal/domain"
	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

// IntakeUseCase drives the homework intake state machine across Telegram
// turns. The session itself is a pure value (model.IntakeSession); this
// usecase only loads, advances, and stores it.
type IntakeUseCase struct {
	states repository.IntakeStateRepository
}

func NewIntakeUseCase(states repository.IntakeStateRepository) *IntakeUseCase {
	return &IntakeUseCase{states: states}
}

// Start opens a fresh session, replacing any in-flight one, and returns the
// first prompt.
func (uc *IntakeUseCase) Start(ctx context.Context, tgID int64) (string, error) {
	sess := model.NewIntakeSession()
	if err := uc.states.Set(ctx, tgID, sess); err != nil {
		return "", fmt.Errorf("store intake session: %w", err)
	}
	return sess.Prompt(), nil
}

// HandleInput consumes one turn of text. When the returned params are
// non-nil the session completed on this turn and has been discarded; the
// reply is then empty and the caller owns the acknowledgment.
func (uc *IntakeUseCase) HandleInput(ctx context.Context, tgID int64, text string) (string, *model.HomeworkParams, error) {
	sess, err := uc.states.Get(ctx, tgID)
	if err != nil {
		return "", nil, err
	}

	reply, done := sess.Advance(text)
	if !done {
		if err := uc.states.Set(ctx, tgID, sess); err != nil {
			return "", nil, fmt.Errorf("store intake session: %w", err)
		}
		return reply, nil, nil
	}

	params, err := sess.Params()
	if err != nil {
		return "", nil, err
	}
	if err := uc.states.Clear(ctx, tgID); err != nil {
		return "", nil, fmt.Errorf("clear intake session: %w", err)
	}
	return "", &params, nil
}

// Cancel discards any in-flight session; it reports whether one existed.
func (uc *IntakeUseCase) Cancel(ctx context.Context, tgID int64) (bool, error) {
	if _, err := uc.states.Get(ctx, tgID); err != nil {
		if errors.Is(err, domain.ErrNoIntakeSession) {
			return false, nil
		}
		return false, err
	}
	if err := uc.states.Clear(ctx, tgID); err != nil {
		return false, err
	}
	return true, nil
}

// InProgress reports whether the conversation has an open session.
func (uc *IntakeUseCase) InProgress(ctx context.Context, tgID int64) bool {
	_, err := uc.states.Get(ctx, tgID)
	return err == nil
}
