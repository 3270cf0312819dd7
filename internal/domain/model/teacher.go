package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"telegram-homework-agent/internal/domain"
)

// Teacher is a domain entity representing the bot user who owns a student
// roster and submits homework jobs.
type Teacher struct {
	ID           string
	TelegramID   int64
	DisplayName  string
	RegisteredAt time.Time
	LastActiveAt time.Time
}

func NewTeacher(id string, tgID int64, displayName string) (*Teacher, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Teacher{
		ID:           id,
		TelegramID:   tgID,
		DisplayName:  strings.TrimSpace(displayName),
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

// Rename updates the display name shown on homework sheets and emails.
func (t *Teacher) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrInvalidArgument
	}
	t.DisplayName = name
	return nil
}

func (t *Teacher) IsZero() bool { return t == nil || t.ID == "" }
func (t *Teacher) Touch()       { t.LastActiveAt = time.Now() }
