package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"telegram-homework-agent/internal/config"
	"telegram-homework-agent/internal/domain/ports/adapter"
)

var _ adapter.MailSender = (*SMTPSender)(nil)

// SMTPSender delivers mail over SMTP with STARTTLS and plain auth, matching
// the failure taxonomy of the dispatcher: connect, auth, attachment-read.
type SMTPSender struct {
	cfg config.SMTPConfig
}

func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host empty")
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg adapter.MailMessage) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromEmail); err != nil {
		return fmt.Errorf("smtp: from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("smtp: to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Body)

	if msg.AttachmentPath != "" {
		// Surface unreadable attachments as their own failure kind
		// before touching the network.
		f, err := os.Open(msg.AttachmentPath)
		if err != nil {
			return adapter.NewMailError(adapter.MailFailureAttachment, err)
		}
		_ = f.Close()
		m.AttachFile(msg.AttachmentPath)
	}

	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.User),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return adapter.NewMailError(adapter.MailFailureConnect, err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return ClassifySMTPError(err)
	}
	return nil
}

// ClassifySMTPError maps a transport error onto the dispatcher's failure
// kinds. Authentication rejections (SMTP 535 family) become auth failures;
// everything else from dial/send is a connect failure.
func ClassifySMTPError(err error) *adapter.MailError {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return adapter.NewMailError(adapter.MailFailureConnect, err)
	}
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "535") || strings.Contains(lower, "auth") {
		return adapter.NewMailError(adapter.MailFailureAuth, err)
	}
	return adapter.NewMailError(adapter.MailFailureConnect, err)
}
