package mail

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/resend/resend-go/v3"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

var _ adapter.MailSender = (*ResendSender)(nil)

// ResendSender delivers mail through the Resend API, as an alternative to
// direct SMTP. API rejections are reported as connect failures; the Resend
// account key is validated per request, so a bad key also surfaces as auth.
type ResendSender struct {
	client *resend.Client
}

func NewResendSender(apiKey string) (*ResendSender, error) {
	if apiKey == "" {
		return nil, errors.New("resend api key empty")
	}
	return &ResendSender{client: resend.NewClient(apiKey)}, nil
}

func (s *ResendSender) Send(ctx context.Context, msg adapter.MailMessage) error {
	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", msg.FromName, msg.FromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Body,
	}

	if msg.AttachmentPath != "" {
		content, err := os.ReadFile(msg.AttachmentPath)
		if err != nil {
			return adapter.NewMailError(adapter.MailFailureAttachment, err)
		}
		req.Attachments = []*resend.Attachment{{
			Filename:    filepath.Base(msg.AttachmentPath),
			Content:     content,
			ContentType: "application/pdf",
		}}
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return classifyResendError(err)
	}
	return nil
}

func classifyResendError(err error) *adapter.MailError {
	// Resend reports invalid keys with a 401 in the error body.
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "401") || strings.Contains(lower, "unauthorized") || strings.Contains(lower, "api key") {
		return adapter.NewMailError(adapter.MailFailureAuth, err)
	}
	return adapter.NewMailError(adapter.MailFailureConnect, err)
}
