package application

import (
	"context"
	"fmt"
	"strings"

	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/infra/worker"
	"telegram-homework-agent/internal/usecase"
)

const helpText = "Welcome! I can create custom homework, export as PDF, and email it to your students.\n\n" +
	"Commands:\n" +
	"/add_student <Name> <email> - Add or update a student\n" +
	"/remove_student <email> - Remove a student\n" +
	"/list_students - List your students\n" +
	"/create_homework - Start interactive homework creation\n" +
	"/set_name <Your Name> - Update your display name on homework"

// BotFacade composes usecases into high-level bot commands.
// Keep the facade methods returning strings so the Telegram adapter just forwards them to the chat.
type BotFacade struct {
	TeacherUC  *usecase.TeacherUseCase
	RosterUC   *usecase.RosterUseCase
	IntakeUC   *usecase.IntakeUseCase
	HomeworkUC *usecase.HomeworkUseCase
	Pool       *worker.Pool
}

func NewBotFacade(
	teacherUC *usecase.TeacherUseCase,
	rosterUC *usecase.RosterUseCase,
	intakeUC *usecase.IntakeUseCase,
	homeworkUC *usecase.HomeworkUseCase,
	pool *worker.Pool,
) *BotFacade {
	return &BotFacade{
		TeacherUC:  teacherUC,
		RosterUC:   rosterUC,
		IntakeUC:   intakeUC,
		HomeworkUC: homeworkUC,
		Pool:       pool,
	}
}

// HandleStart registers or fetches the teacher and returns the welcome text.
func (b *BotFacade) HandleStart(ctx context.Context, tgID int64, fullName string) (string, error) {
	if _, err := b.TeacherUC.RegisterOrFetch(ctx, tgID, fullName); err != nil {
		return "", fmt.Errorf("register/fetch teacher: %w", err)
	}
	return helpText, nil
}

func (b *BotFacade) HandleHelp() string {
	return helpText
}

// HandleSetName updates the name printed on homework sheets and emails.
func (b *BotFacade) HandleSetName(ctx context.Context, tgID int64, args string) (string, error) {
	name := strings.TrimSpace(args)
	if name == "" {
		return "Usage: /set_name Firstname Lastname", nil
	}
	if _, err := b.TeacherUC.SetName(ctx, tgID, name); err != nil {
		return "", fmt.Errorf("set name: %w", err)
	}
	return fmt.Sprintf("Updated your name to: %s", name), nil
}

// HandleAddStudent parses "<Name> <email>" where the last token is the address.
func (b *BotFacade) HandleAddStudent(ctx context.Context, tgID int64, args string) (string, error) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "Usage: /add_student <Name> <email>", nil
	}
	name := strings.Join(fields[:len(fields)-1], " ")
	email := fields[len(fields)-1]

	t, err := b.TeacherUC.RegisterOrFetch(ctx, tgID, "")
	if err != nil {
		return "", fmt.Errorf("register/fetch teacher: %w", err)
	}
	s, err := b.RosterUC.AddStudent(ctx, t.ID, name, email)
	if err != nil {
		return "That doesn't look like a valid student. Usage: /add_student <Name> <email>", nil
	}
	return fmt.Sprintf("Added/updated student: %s <%s>", s.Name, s.Email), nil
}

func (b *BotFacade) HandleRemoveStudent(ctx context.Context, tgID int64, args string) (string, error) {
	email := strings.TrimSpace(args)
	if email == "" {
		return "Usage: /remove_student <email>", nil
	}
	t, err := b.TeacherUC.RegisterOrFetch(ctx, tgID, "")
	if err != nil {
		return "", fmt.Errorf("register/fetch teacher: %w", err)
	}
	n, err := b.RosterUC.RemoveStudent(ctx, t.ID, email)
	if err != nil {
		return "", fmt.Errorf("remove student: %w", err)
	}
	if n == 0 {
		return "No matching student found.", nil
	}
	return "Removed student.", nil
}

func (b *BotFacade) HandleListStudents(ctx context.Context, tgID int64) (string, error) {
	t, err := b.TeacherUC.RegisterOrFetch(ctx, tgID, "")
	if err != nil {
		return "", fmt.Errorf("register/fetch teacher: %w", err)
	}
	students, err := b.RosterUC.ListStudents(ctx, t.ID)
	if err != nil {
		return "", fmt.Errorf("list students: %w", err)
	}
	if len(students) == 0 {
		return "You have no students yet. Use /add_student <Name> <email> to add one.", nil
	}
	sb := strings.Builder{}
	sb.WriteString("Your students:\n")
	for _, s := range students {
		sb.WriteString(fmt.Sprintf("- %s <%s>\n", s.Name, s.Email))
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// HandleCreateHomework opens an intake session and returns the first prompt.
func (b *BotFacade) HandleCreateHomework(ctx context.Context, tgID int64, fullName string) (string, error) {
	if _, err := b.TeacherUC.RegisterOrFetch(ctx, tgID, fullName); err != nil {
		return "", fmt.Errorf("register/fetch teacher: %w", err)
	}
	return b.IntakeUC.Start(ctx, tgID)
}

// HandleCancel discards any in-flight intake session.
func (b *BotFacade) HandleCancel(ctx context.Context, tgID int64) (string, error) {
	existed, err := b.IntakeUC.Cancel(ctx, tgID)
	if err != nil {
		return "", fmt.Errorf("cancel intake: %w", err)
	}
	if !existed {
		return "Nothing to cancel.", nil
	}
	return "Cancelled.", nil
}

// HandleText feeds one turn of plain text into the intake conversation. When
// the session completes, the homework job is queued and the teacher gets an
// immediate acknowledgment; the completion report arrives from the job itself.
func (b *BotFacade) HandleText(ctx context.Context, tgID int64, fullName, text string) (string, error) {
	if !b.IntakeUC.InProgress(ctx, tgID) {
		return "Use /create_homework to start a new homework, or /start for the command list.", nil
	}

	reply, params, err := b.IntakeUC.HandleInput(ctx, tgID, text)
	if err != nil {
		return "", fmt.Errorf("intake input: %w", err)
	}
	if params == nil {
		return reply, nil
	}

	t, err := b.TeacherUC.RegisterOrFetch(ctx, tgID, fullName)
	if err != nil {
		return "", fmt.Errorf("register/fetch teacher: %w", err)
	}
	b.submitJob(t, *params)
	return "Got it! Generating homework and emailing your students. I will update you when done.", nil
}

// submitJob hands the pipeline to the pool; when the queue is saturated the
// job runs on its own goroutine so the acknowledgment stays true.
func (b *BotFacade) submitJob(t *model.Teacher, params model.HomeworkParams) {
	task := func(ctx context.Context) error {
		return b.HomeworkUC.Run(ctx, t, params)
	}
	if err := b.Pool.Submit(task); err != nil {
		go func() { _ = task(context.Background()) }()
	}
}
