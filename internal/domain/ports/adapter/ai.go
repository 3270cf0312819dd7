package adapter

import "context"

// HomeworkRequest carries everything a generator needs to write one sheet.
type HomeworkRequest struct {
	Subject      string
	Topic        string
	Level        string
	NumQuestions int
	DueDate      string
	TeacherName  string
}

// ContentGenerator produces homework content as markdown. Implementations
// may fail or be unavailable; callers must supply a fallback.
type ContentGenerator interface {
	// Generate returns markdown with a title, instructions, numbered
	// questions, and an answer key.
	Generate(ctx context.Context, req HomeworkRequest) (string, error)
	// CountTokens estimates the prompt size that Generate would submit.
	CountTokens(ctx context.Context, req HomeworkRequest) (int, error)
}
