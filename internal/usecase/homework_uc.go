package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/adapter"
	"telegram-homework-agent/internal/domain/ports/repository"
	"telegram-homework-agent/internal/infra/metrics"
)

// HomeworkUseCase orchestrates one homework job end to end: persist, generate
// content, render the PDF, fan out delivery, finalize status, and report back
// to the teacher's chat. Run is designed to execute on a worker, off the
// Telegram turn that triggered it.
type HomeworkUseCase struct {
	jobs       repository.HomeworkJobRepository
	students   repository.StudentRepository
	generator  adapter.ContentGenerator // provider chain; may fail
	fallback   adapter.ContentGenerator // offline template; never fails
	renderer   adapter.DocumentRenderer
	dispatcher DispatchUseCase
	bot        adapter.TelegramBotAdapter
	fromName   string
	fromEmail  string
	outputDir  string
	log        *zerolog.Logger
}

func NewHomeworkUseCase(
	jobs repository.HomeworkJobRepository,
	students repository.StudentRepository,
	generator adapter.ContentGenerator,
	fallback adapter.ContentGenerator,
	renderer adapter.DocumentRenderer,
	dispatcher DispatchUseCase,
	bot adapter.TelegramBotAdapter,
	fromName, fromEmail, outputDir string,
	logger *zerolog.Logger,
) *HomeworkUseCase {
	return &HomeworkUseCase{
		jobs:       jobs,
		students:   students,
		generator:  generator,
		fallback:   fallback,
		renderer:   renderer,
		dispatcher: dispatcher,
		bot:        bot,
		fromName:   fromName,
		fromEmail:  fromEmail,
		outputDir:  outputDir,
		log:        logger,
	}
}

// Run executes the full pipeline for one job. Failures are absorbed here:
// the job is marked failed, the teacher gets exactly one completion report,
// and no error escapes to the worker.
func (uc *HomeworkUseCase) Run(ctx context.Context, teacher *model.Teacher, params model.HomeworkParams) error {
	var job *model.HomeworkJob
	defer func() {
		if r := recover(); r != nil {
			uc.log.Error().Interface("panic", r).Msg("homework job panicked")
			if job != nil {
				uc.fail(ctx, teacher, job, fmt.Sprintf("unexpected error: %v", r))
			} else {
				uc.reply(ctx, teacher, fmt.Sprintf("Failed to complete homework job: %v", r))
			}
		}
	}()

	job, err := model.NewHomeworkJob(teacher.ID, params)
	if err != nil {
		uc.reply(ctx, teacher, "Failed to complete homework job: invalid parameters.")
		return nil
	}
	if err := uc.jobs.Create(ctx, repository.NoTX, job); err != nil {
		uc.log.Error().Err(err).Msg("create job")
		uc.reply(ctx, teacher, "Failed to complete homework job: could not persist the job.")
		return nil
	}

	log := uc.log.With().Str("job_id", job.ID).Logger()
	log.Info().Str("subject", job.Subject).Str("topic", job.Topic).Msg("homework job started")

	markdown := uc.generate(ctx, teacher, params, &log)

	artifact := filepath.Join(uc.outputDir, fmt.Sprintf("homework_%d_%s.pdf", teacher.TelegramID, job.ID))
	if err := uc.renderer.Render(ctx, markdown, artifact); err != nil {
		log.Error().Err(err).Msg("render failed")
		uc.fail(ctx, teacher, job, fmt.Sprintf("could not render the PDF: %v", err))
		return nil
	}
	if err := job.MarkRendered(artifact); err != nil {
		uc.fail(ctx, teacher, job, "job state corrupted")
		return nil
	}
	if err := uc.jobs.Update(ctx, repository.NoTX, job); err != nil {
		log.Error().Err(err).Msg("persist rendered status")
		uc.fail(ctx, teacher, job, "could not persist job progress")
		return nil
	}

	// Point-in-time roster snapshot; later edits don't affect this dispatch.
	students, err := uc.students.ListByTeacher(ctx, repository.NoTX, teacher.ID)
	if err != nil {
		log.Error().Err(err).Msg("list students")
		uc.fail(ctx, teacher, job, "could not load your students")
		return nil
	}

	if len(students) == 0 {
		uc.finalize(ctx, teacher, job, "No students found; skipping emails. The homework PDF is ready.", &log)
		return nil
	}

	msg := adapter.MailMessage{
		FromName:       uc.fromName,
		FromEmail:      uc.fromEmail,
		Subject:        fmt.Sprintf("%s Homework: %s (Due %s)", params.Subject, params.Topic, params.DueDate),
		Body:           uc.mailBody(params),
		AttachmentPath: artifact,
	}
	outcomes := uc.dispatcher.Dispatch(ctx, msg, students)

	delivered := 0
	for _, o := range outcomes {
		if o.Err == nil {
			delivered++
		}
	}
	failed := len(outcomes) - delivered

	report := fmt.Sprintf("Homework sent: %d/%d delivered.", delivered, len(outcomes))
	if failed > 0 {
		report = fmt.Sprintf("Homework sent: %d/%d delivered, %d failed.", delivered, len(outcomes), failed)
	}
	uc.finalize(ctx, teacher, job, report, &log)
	return nil
}

// generate runs the provider chain and falls back to the deterministic
// template when every provider fails; the pipeline always gets content.
func (uc *HomeworkUseCase) generate(ctx context.Context, teacher *model.Teacher, params model.HomeworkParams, log *zerolog.Logger) string {
	req := adapter.HomeworkRequest{
		Subject:      params.Subject,
		Topic:        params.Topic,
		Level:        params.Level,
		NumQuestions: params.NumQuestions,
		DueDate:      params.DueDate,
		TeacherName:  teacher.DisplayName,
	}

	if uc.generator != nil {
		if n, err := uc.generator.CountTokens(ctx, req); err == nil {
			metrics.ObservePromptTokens(n)
			log.Debug().Int("prompt_tokens", n).Msg("generation prompt sized")
		}
		text, err := uc.generator.Generate(ctx, req)
		if err == nil {
			metrics.IncGeneration("provider", true)
			return text
		}
		metrics.IncGeneration("provider", false)
		log.Warn().Err(err).Msg("provider generation failed; using fallback template")
	}

	text, _ := uc.fallback.Generate(ctx, req)
	metrics.IncGeneration("fallback", true)
	return text
}

func (uc *HomeworkUseCase) mailBody(params model.HomeworkParams) string {
	return fmt.Sprintf(
		"Hello,\n\nPlease find attached your homework for %s on %s.\nDue date: %s.\n\nBest,\n%s",
		params.Subject, params.Topic, params.DueDate, uc.fromName,
	)
}

// finalize marks the job sent (dispatch attempted = sent) and reports once.
func (uc *HomeworkUseCase) finalize(ctx context.Context, teacher *model.Teacher, job *model.HomeworkJob, report string, log *zerolog.Logger) {
	if err := job.MarkSent(); err != nil {
		uc.fail(ctx, teacher, job, "job state corrupted")
		return
	}
	if err := uc.jobs.Update(ctx, repository.NoTX, job); err != nil {
		log.Error().Err(err).Msg("persist sent status")
		uc.fail(ctx, teacher, job, "could not persist job completion")
		return
	}
	metrics.ObserveJobFinished(string(job.Status), time.Since(job.CreatedAt))
	log.Info().Str("status", string(job.Status)).Msg("homework job finished")
	uc.reply(ctx, teacher, report)
}

// fail transitions the job to failed where still legal and reports once.
func (uc *HomeworkUseCase) fail(ctx context.Context, teacher *model.Teacher, job *model.HomeworkJob, reason string) {
	if err := job.MarkFailed(reason); err == nil {
		if err := uc.jobs.Update(ctx, repository.NoTX, job); err != nil {
			uc.log.Error().Err(err).Str("job_id", job.ID).Msg("persist failed status")
		}
	}
	metrics.ObserveJobFinished(string(model.JobStatusFailed), time.Since(job.CreatedAt))
	uc.reply(ctx, teacher, "Failed to complete homework job: "+reason)
}

func (uc *HomeworkUseCase) reply(ctx context.Context, teacher *model.Teacher, text string) {
	if err := uc.bot.SendMessage(ctx, teacher.TelegramID, text); err != nil {
		uc.log.Error().Err(err).Int64("tg_id", teacher.TelegramID).Msg("could not deliver job report")
	}
}
