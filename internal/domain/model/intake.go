package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"telegram-homework-agent/internal/domain"
)

// IntakeStage tags the field the session is currently collecting.
type IntakeStage string

const (
	StageAwaitingSubject       IntakeStage = "awaiting_subject"
	StageAwaitingTopic         IntakeStage = "awaiting_topic"
	StageAwaitingLevel         IntakeStage = "awaiting_level"
	StageAwaitingQuestionCount IntakeStage = "awaiting_question_count"
	StageAwaitingDueDate       IntakeStage = "awaiting_due_date"
	StageComplete              IntakeStage = "complete"
	StageCancelled             IntakeStage = "cancelled"
)

const (
	DefaultQuestionCount = 10
	maxQuestionCount     = 50
	dueDateLayout        = "2006-01-02"
)

// IntakeSession is the per-conversation state of homework creation: the
// current stage plus the parameters accumulated so far. It holds no
// references to the conversation and is safe to serialize between turns.
type IntakeSession struct {
	Stage     IntakeStage    `json:"stage"`
	Draft     HomeworkParams `json:"draft"`
	StartedAt time.Time      `json:"started_at"`
}

func NewIntakeSession() *IntakeSession {
	return &IntakeSession{Stage: StageAwaitingSubject, StartedAt: time.Now()}
}

// Prompt returns the question for the stage the session is waiting on.
func (s *IntakeSession) Prompt() string {
	switch s.Stage {
	case StageAwaitingSubject:
		return "What is the subject? (e.g., Math, History)"
	case StageAwaitingTopic:
		return "Great. What is the topic?"
	case StageAwaitingLevel:
		return "Level or grade? (e.g., Grade 7, Beginner, AP)"
	case StageAwaitingQuestionCount:
		return fmt.Sprintf("How many questions? (default %d)", DefaultQuestionCount)
	case StageAwaitingDueDate:
		return "Due date (YYYY-MM-DD)?"
	default:
		return ""
	}
}

// Advance consumes one turn of raw input. On valid input the value is stored
// and the session moves to the next stage; the returned reply is the next
// prompt, or empty once the session is complete. On invalid input the session
// stays in place and the reply restates the requirement. done reports entry
// into StageComplete.
func (s *IntakeSession) Advance(input string) (reply string, done bool) {
	text := strings.TrimSpace(input)

	switch s.Stage {
	case StageAwaitingSubject:
		if text == "" {
			return "Subject must not be empty. " + s.Prompt(), false
		}
		s.Draft.Subject = text
		s.Stage = StageAwaitingTopic

	case StageAwaitingTopic:
		if text == "" {
			return "Topic must not be empty. " + s.Prompt(), false
		}
		s.Draft.Topic = text
		s.Stage = StageAwaitingLevel

	case StageAwaitingLevel:
		if text == "" {
			return "Level must not be empty. " + s.Prompt(), false
		}
		s.Draft.Level = text
		s.Stage = StageAwaitingQuestionCount

	case StageAwaitingQuestionCount:
		// Lenient by design: anything unparseable or out of range falls
		// back to the default instead of re-prompting.
		s.Draft.NumQuestions = parseQuestionCount(text)
		s.Stage = StageAwaitingDueDate

	case StageAwaitingDueDate:
		if _, err := time.Parse(dueDateLayout, text); err != nil {
			return "Please provide a date as YYYY-MM-DD.", false
		}
		s.Draft.DueDate = text
		s.Stage = StageComplete
		return "", true

	default:
		return "", s.Stage == StageComplete
	}

	return s.Prompt(), false
}

// Cancel marks the session cancelled from any non-terminal stage.
func (s *IntakeSession) Cancel() {
	if !s.Finished() {
		s.Stage = StageCancelled
	}
}

func (s *IntakeSession) Finished() bool {
	return s.Stage == StageComplete || s.Stage == StageCancelled
}

// Params returns the finalized parameter set; only valid once complete.
func (s *IntakeSession) Params() (HomeworkParams, error) {
	if s.Stage != StageComplete {
		return HomeworkParams{}, domain.ErrNoIntakeSession
	}
	return s.Draft, nil
}

func parseQuestionCount(text string) int {
	n, err := strconv.Atoi(text)
	if err != nil || n <= 0 || n > maxQuestionCount {
		return DefaultQuestionCount
	}
	return n
}
