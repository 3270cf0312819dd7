package ai

import (
	"context"
	"fmt"
	"strings"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

var _ adapter.ContentGenerator = (*FallbackGenerator)(nil)

// FallbackGenerator produces a deterministic templated worksheet when no AI
// provider is reachable. It never fails for valid parameters, so the job
// pipeline always has content to render.
type FallbackGenerator struct{}

func NewFallbackGenerator() *FallbackGenerator { return &FallbackGenerator{} }

func (f *FallbackGenerator) Generate(_ context.Context, req adapter.HomeworkRequest) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s Homework: %s\n\n", req.Subject, req.Topic)
	fmt.Fprintf(&sb, "Level: %s  \n", req.Level)
	fmt.Fprintf(&sb, "Due: %s  \n", req.DueDate)
	if req.TeacherName != "" {
		fmt.Fprintf(&sb, "Teacher: %s\n", req.TeacherName)
	}
	sb.WriteString("\n## Instructions\n")
	sb.WriteString("Show all your work and submit by the due date.\n")
	sb.WriteString("\n## Questions\n")
	for i := 1; i <= req.NumQuestions; i++ {
		fmt.Fprintf(&sb, "%d. Describe or solve a problem related to %s at the %s level.\n", i, req.Topic, req.Level)
	}
	sb.WriteString("\n## Answer Key\n")
	for i := 1; i <= req.NumQuestions; i++ {
		fmt.Fprintf(&sb, "%d. Answers will be provided by the teacher after submission.\n", i)
	}
	return sb.String(), nil
}

func (f *FallbackGenerator) CountTokens(_ context.Context, _ adapter.HomeworkRequest) (int, error) {
	return 0, nil
}
