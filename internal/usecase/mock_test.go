//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-homework-agent/internal/domain"
	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/adapter"
	"telegram-homework-agent/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// =============================
// Repositories
// =============================

// ---- Mock TransactionManager ----

// MockTxManager runs the callback immediately with NoTX by default; tests that
// need to observe the transaction boundary assign WithTxFunc.
type MockTxManager struct {
	Calls      int
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- Mock TeacherRepository ----

type MockTeacherRepo struct {
	mu      sync.Mutex
	byTgID  map[int64]*model.Teacher
	SaveErr error

	SaveFunc             func(ctx context.Context, tx repository.Tx, t *model.Teacher) error
	FindByTelegramIDFunc func(ctx context.Context, tx repository.Tx, tgID int64) (*model.Teacher, error)
}

var _ repository.TeacherRepository = (*MockTeacherRepo)(nil)

func NewMockTeacherRepo() *MockTeacherRepo {
	return &MockTeacherRepo{byTgID: make(map[int64]*model.Teacher)}
}

func (m *MockTeacherRepo) Save(ctx context.Context, tx repository.Tx, t *model.Teacher) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, t)
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.byTgID[t.TelegramID] = &cp
	return nil
}

func (m *MockTeacherRepo) FindByTelegramID(ctx context.Context, tx repository.Tx, tgID int64) (*model.Teacher, error) {
	if m.FindByTelegramIDFunc != nil {
		return m.FindByTelegramIDFunc(ctx, tx, tgID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.byTgID[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MockTeacherRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Teacher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.byTgID {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockTeacherRepo) CountTeachers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byTgID), nil
}

// ---- Mock StudentRepository ----

type MockStudentRepo struct {
	mu       sync.Mutex
	students []*model.Student

	UpsertFunc        func(ctx context.Context, tx repository.Tx, s *model.Student) error
	RemoveFunc        func(ctx context.Context, tx repository.Tx, teacherID, email string) (int, error)
	ListByTeacherFunc func(ctx context.Context, tx repository.Tx, teacherID string) ([]*model.Student, error)
}

var _ repository.StudentRepository = (*MockStudentRepo)(nil)

func NewMockStudentRepo() *MockStudentRepo {
	return &MockStudentRepo{}
}

func (m *MockStudentRepo) Upsert(ctx context.Context, tx repository.Tx, s *model.Student) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, s)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.students {
		if existing.TeacherID == s.TeacherID && existing.Email == s.Email {
			cp := *s
			cp.ID = existing.ID
			m.students[i] = &cp
			return nil
		}
	}
	cp := *s
	m.students = append(m.students, &cp)
	return nil
}

func (m *MockStudentRepo) Remove(ctx context.Context, tx repository.Tx, teacherID, email string) (int, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, tx, teacherID, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	email = model.NormalizeEmail(email)
	kept := m.students[:0]
	removed := 0
	for _, s := range m.students {
		if s.TeacherID == teacherID && s.Email == email {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.students = kept
	return removed, nil
}

func (m *MockStudentRepo) ListByTeacher(ctx context.Context, tx repository.Tx, teacherID string) ([]*model.Student, error) {
	if m.ListByTeacherFunc != nil {
		return m.ListByTeacherFunc(ctx, tx, teacherID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Student
	for _, s := range m.students {
		if s.TeacherID == teacherID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockStudentRepo) CountStudents(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.students), nil
}

// ---- Mock HomeworkJobRepository ----

type MockJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.HomeworkJob

	CreateFunc func(ctx context.Context, tx repository.Tx, job *model.HomeworkJob) error
	UpdateFunc func(ctx context.Context, tx repository.Tx, job *model.HomeworkJob) error
}

var _ repository.HomeworkJobRepository = (*MockJobRepo)(nil)

func NewMockJobRepo() *MockJobRepo {
	return &MockJobRepo{jobs: make(map[string]*model.HomeworkJob)}
}

func (m *MockJobRepo) Create(ctx context.Context, tx repository.Tx, job *model.HomeworkJob) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[job.ID]; exists {
		return domain.ErrAlreadyExists
	}
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepo) Update(ctx context.Context, tx repository.Tx, job *model.HomeworkJob) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, job)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[job.ID]; !exists {
		return domain.ErrNotFound
	}
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *MockJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.HomeworkJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (m *MockJobRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.JobStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[model.JobStatus]int)
	for _, j := range m.jobs {
		out[j.Status]++
	}
	return out, nil
}

// Stored returns a copy of the single stored job, for single-job tests.
func (m *MockJobRepo) Stored() *model.HomeworkJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		cp := *j
		return &cp
	}
	return nil
}

// ---- Mock IntakeStateRepository ----

type MockIntakeStateRepo struct {
	mu       sync.Mutex
	sessions map[int64]*model.IntakeSession
}

var _ repository.IntakeStateRepository = (*MockIntakeStateRepo)(nil)

func NewMockIntakeStateRepo() *MockIntakeStateRepo {
	return &MockIntakeStateRepo{sessions: make(map[int64]*model.IntakeSession)}
}

func (m *MockIntakeStateRepo) Set(ctx context.Context, tgID int64, s *model.IntakeSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.sessions[tgID] = &cp
	return nil
}

func (m *MockIntakeStateRepo) Get(ctx context.Context, tgID int64) (*model.IntakeSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[tgID]
	if !ok {
		return nil, domain.ErrNoIntakeSession
	}
	cp := *s
	return &cp, nil
}

func (m *MockIntakeStateRepo) Clear(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tgID)
	return nil
}

// =============================
// Adapters
// =============================

// ---- Mock TelegramBotAdapter ----

type MockTelegramBot struct {
	mu   sync.Mutex
	Sent []string

	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
}

var _ adapter.TelegramBotAdapter = (*MockTelegramBot)(nil)

func (m *MockTelegramBot) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, text)
	return nil
}

func (m *MockTelegramBot) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// ---- Mock ContentGenerator ----

type MockGenerator struct {
	mu    sync.Mutex
	Calls int

	GenerateFunc    func(ctx context.Context, req adapter.HomeworkRequest) (string, error)
	CountTokensFunc func(ctx context.Context, req adapter.HomeworkRequest) (int, error)
}

var _ adapter.ContentGenerator = (*MockGenerator)(nil)

func (m *MockGenerator) Generate(ctx context.Context, req adapter.HomeworkRequest) (string, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "# " + req.Subject + " Homework\n\n1. Question one\n", nil
}

func (m *MockGenerator) CountTokens(ctx context.Context, req adapter.HomeworkRequest) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, req)
	}
	return 42, nil
}

// ---- Mock DocumentRenderer ----

type MockRenderer struct {
	mu       sync.Mutex
	Rendered []string // output paths

	RenderFunc func(ctx context.Context, markdown, outputPath string) error
}

var _ adapter.DocumentRenderer = (*MockRenderer)(nil)

func (m *MockRenderer) Render(ctx context.Context, markdown, outputPath string) error {
	if m.RenderFunc != nil {
		return m.RenderFunc(ctx, markdown, outputPath)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rendered = append(m.Rendered, outputPath)
	return nil
}

// ---- Mock MailSender ----

type MockMailSender struct {
	mu   sync.Mutex
	Sent []adapter.MailMessage

	SendFunc func(ctx context.Context, msg adapter.MailMessage) error
}

var _ adapter.MailSender = (*MockMailSender)(nil)

func (m *MockMailSender) Send(ctx context.Context, msg adapter.MailMessage) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

func (m *MockMailSender) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
