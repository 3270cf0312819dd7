package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"telegram-homework-agent/internal/domain"
)

// Student is an addressable recipient of rendered homework. A teacher's
// roster is keyed by (teacher, email): re-adding an existing email updates
// the stored name instead of creating a second row.
type Student struct {
	ID        string
	TeacherID string
	Name      string
	Email     string
	CreatedAt time.Time
}

func NewStudent(teacherID, name, email string) (*Student, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if teacherID == "" || name == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	if !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidArgument
	}
	return &Student{
		ID:        uuid.NewString(),
		TeacherID: teacherID,
		Name:      name,
		Email:     email,
		CreatedAt: time.Now(),
	}, nil
}

// NormalizeEmail canonicalizes an address so the (teacher, email) uniqueness
// check is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
