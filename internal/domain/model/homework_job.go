package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"telegram-homework-agent/internal/domain"
)

type JobStatus string

const (
	JobStatusCreated  JobStatus = "created"
	JobStatusRendered JobStatus = "rendered"
	JobStatusSent     JobStatus = "sent"
	JobStatusFailed   JobStatus = "failed"
)

// HomeworkParams is the finalized parameter set produced by a completed
// intake session.
type HomeworkParams struct {
	Subject      string `json:"subject"`
	Topic        string `json:"topic"`
	Level        string `json:"level"`
	NumQuestions int    `json:"num_questions"`
	DueDate      string `json:"due_date"` // YYYY-MM-DD
}

// HomeworkJob tracks one homework request from creation to delivery outcome.
// A job is mutated only by the orchestration run that created it.
type HomeworkJob struct {
	ID           string
	TeacherID    string
	Subject      string
	Topic        string
	Level        string
	NumQuestions int
	DueDate      string
	ArtifactPath string // empty until rendered
	Status       JobStatus
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewHomeworkJob(teacherID string, p HomeworkParams) (*HomeworkJob, error) {
	if teacherID == "" || p.Subject == "" || p.Topic == "" || p.Level == "" || p.DueDate == "" {
		return nil, domain.ErrInvalidArgument
	}
	if p.NumQuestions <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &HomeworkJob{
		ID:           ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		TeacherID:    teacherID,
		Subject:      p.Subject,
		Topic:        p.Topic,
		Level:        p.Level,
		NumQuestions: p.NumQuestions,
		DueDate:      p.DueDate,
		Status:       JobStatusCreated,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// canTransition encodes the job lifecycle: created -> rendered -> sent, with
// failed reachable from any non-terminal status. sent and failed are terminal.
func canTransition(from, to JobStatus) bool {
	switch from {
	case JobStatusCreated:
		return to == JobStatusRendered || to == JobStatusFailed
	case JobStatusRendered:
		return to == JobStatusSent || to == JobStatusFailed
	default:
		return false
	}
}

func (j *HomeworkJob) transition(to JobStatus) error {
	if !canTransition(j.Status, to) {
		return domain.ErrInvalidStatusTransition
	}
	j.Status = to
	j.UpdatedAt = time.Now()
	return nil
}

// MarkRendered records the artifact location and advances to rendered.
func (j *HomeworkJob) MarkRendered(artifactPath string) error {
	if artifactPath == "" {
		return domain.ErrInvalidArgument
	}
	if err := j.transition(JobStatusRendered); err != nil {
		return err
	}
	j.ArtifactPath = artifactPath
	return nil
}

// MarkSent records that dispatch was attempted. Per-recipient failures do not
// keep a job out of sent; the completion report carries the delivery counts.
func (j *HomeworkJob) MarkSent() error {
	return j.transition(JobStatusSent)
}

// MarkFailed is terminal and records a human-readable reason.
func (j *HomeworkJob) MarkFailed(reason string) error {
	if err := j.transition(JobStatusFailed); err != nil {
		return err
	}
	j.LastError = reason
	return nil
}

func (j *HomeworkJob) IsTerminal() bool {
	return j.Status == JobStatusSent || j.Status == JobStatusFailed
}
