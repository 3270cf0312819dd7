package ai

import (
	"fmt"
	"strings"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

const systemPrompt = "You are a helpful assistant that writes clear, age-appropriate homework. " +
	"Return only markdown with headings and numbered questions. Include an answer key at the end."

func buildUserPrompt(req adapter.HomeworkRequest) string {
	teacher := req.TeacherName
	if teacher == "" {
		teacher = "Unknown"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create homework for subject: %s.\n", req.Subject)
	fmt.Fprintf(&sb, "Topic: %s.\n", req.Topic)
	fmt.Fprintf(&sb, "Level: %s.\n", req.Level)
	fmt.Fprintf(&sb, "Number of questions: %d.\n", req.NumQuestions)
	fmt.Fprintf(&sb, "Due date: %s.\n", req.DueDate)
	fmt.Fprintf(&sb, "Teacher: %s.\n\n", teacher)
	sb.WriteString("Structure:\n")
	sb.WriteString("# Title with subject and topic\n")
	sb.WriteString("## Instructions\n")
	sb.WriteString("## Questions (numbered 1..N)\n")
	sb.WriteString("## Answer Key\n")
	return sb.String()
}
