package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"

	"telegram-homework-agent/internal/domain"
	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

// TeacherUseCase registers and maintains the bot's users.
type TeacherUseCase struct {
	teachers repository.TeacherRepository
	tm       repository.TransactionManager
}

func NewTeacherUseCase(teachers repository.TeacherRepository, tm repository.TransactionManager) *TeacherUseCase {
	return &TeacherUseCase{teachers: teachers, tm: tm}
}

// RegisterOrFetch returns the teacher for a Telegram ID, creating the row on
// first contact. The Telegram profile name seeds the display name. Find and
// save run in one transaction so two concurrent first contacts cannot both
// insert.
func (uc *TeacherUseCase) RegisterOrFetch(ctx context.Context, tgID int64, fullName string) (*model.Teacher, error) {
	var result *model.Teacher
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := uc.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		t, err := uc.teachers.FindByTelegramID(ctx, tx, tgID)
		if err == nil {
			t.Touch()
			if err := uc.teachers.Save(ctx, tx, t); err != nil {
				return fmt.Errorf("touch teacher: %w", err)
			}
			result = t
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("find teacher: %w", err)
		}

		t, err = model.NewTeacher("", tgID, fullName)
		if err != nil {
			return err
		}
		if err := uc.teachers.Save(ctx, tx, t); err != nil {
			return fmt.Errorf("save teacher: %w", err)
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetName updates the display name shown on homework sheets and emails.
func (uc *TeacherUseCase) SetName(ctx context.Context, tgID int64, name string) (*model.Teacher, error) {
	var result *model.Teacher
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		t, err := uc.teachers.FindByTelegramID(ctx, tx, tgID)
		if err != nil {
			return err
		}
		if err := t.Rename(name); err != nil {
			return err
		}
		if err := uc.teachers.Save(ctx, tx, t); err != nil {
			return fmt.Errorf("save teacher: %w", err)
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *TeacherUseCase) GetByTelegramID(ctx context.Context, tgID int64) (*model.Teacher, error) {
	return uc.teachers.FindByTelegramID(ctx, repository.NoTX, tgID)
}
