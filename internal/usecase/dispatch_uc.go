package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"telegram-homework-agent/internal/domain/model"
	"telegram-homework-agent/internal/domain/ports/adapter"
	"telegram-homework-agent/internal/infra/metrics"
)

// DeliveryOutcome is the settled result of one recipient's delivery attempt.
type DeliveryOutcome struct {
	Student *model.Student
	Err     error // nil on success
}

// FailureKind extracts the mail failure classification, if any.
func (o DeliveryOutcome) FailureKind() adapter.MailFailureKind {
	var me *adapter.MailError
	if errors.As(o.Err, &me) {
		return me.Kind
	}
	return ""
}

type DispatchUseCase interface {
	// Dispatch delivers the artifact to every student concurrently and
	// waits for all attempts to settle. One outcome is returned per
	// student, in input order; a failed delivery never cancels or delays
	// the others. The dispatcher does not retry.
	Dispatch(ctx context.Context, msg adapter.MailMessage, students []*model.Student) []DeliveryOutcome
}

var _ DispatchUseCase = (*dispatchUC)(nil)

type dispatchUC struct {
	sender        adapter.MailSender
	maxConcurrent int // 0 = one goroutine per recipient
	log           *zerolog.Logger
}

func NewDispatchUseCase(sender adapter.MailSender, maxConcurrent int, logger *zerolog.Logger) *dispatchUC {
	return &dispatchUC{sender: sender, maxConcurrent: maxConcurrent, log: logger}
}

func (uc *dispatchUC) Dispatch(ctx context.Context, msg adapter.MailMessage, students []*model.Student) []DeliveryOutcome {
	outcomes := make([]DeliveryOutcome, len(students))

	var sem chan struct{}
	if uc.maxConcurrent > 0 {
		sem = make(chan struct{}, uc.maxConcurrent)
	}

	var wg sync.WaitGroup
	for i, s := range students {
		wg.Add(1)
		go func(i int, s *model.Student) {
			defer wg.Done()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}

			m := msg
			m.To = s.Email
			err := uc.sender.Send(ctx, m)
			outcomes[i] = DeliveryOutcome{Student: s, Err: err}

			metrics.IncMailDelivery(err == nil, string(outcomes[i].FailureKind()))
			if err != nil {
				uc.log.Warn().Err(err).Str("email", s.Email).Msg("delivery failed")
			}
		}(i, s)
	}
	wg.Wait()

	return outcomes
}
