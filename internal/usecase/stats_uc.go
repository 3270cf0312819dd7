package usecase

import (
	"context"
	"fmt"

	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/repository"
)

// Stats is the admin-facing snapshot served on the stats endpoint.
type Stats struct {
	Teachers     int                     `json:"teachers"`
	Students     int                     `json:"students"`
	JobsByStatus map[model.JobStatus]int `json:"jobs_by_status"`
}

type StatsUseCase struct {
	teachers repository.TeacherRepository
	students repository.StudentRepository
	jobs     repository.HomeworkJobRepository
}

func NewStatsUseCase(
	teachers repository.TeacherRepository,
	students repository.StudentRepository,
	jobs repository.HomeworkJobRepository,
) *StatsUseCase {
	return &StatsUseCase{teachers: teachers, students: students, jobs: jobs}
}

func (uc *StatsUseCase) Collect(ctx context.Context) (*Stats, error) {
	teachers, err := uc.teachers.CountTeachers(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("count teachers: %w", err)
	}
	students, err := uc.students.CountStudents(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	byStatus, err := uc.jobs.CountByStatus(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	return &Stats{Teachers: teachers, Students: students, JobsByStatus: byStatus}, nil
}
