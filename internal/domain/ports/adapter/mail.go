package adapter

import (
	"context"
	"fmt"
)

// MailFailureKind classifies a delivery failure per attempt.
type MailFailureKind string

const (
	MailFailureConnect    MailFailureKind = "connect"
	MailFailureAuth       MailFailureKind = "auth"
	MailFailureAttachment MailFailureKind = "attachment_read"
)

// MailError carries the failure kind alongside the underlying cause so the
// dispatcher can aggregate without string matching.
type MailError struct {
	Kind MailFailureKind
	Err  error
}

func (e *MailError) Error() string {
	return fmt.Sprintf("mail %s failure: %v", e.Kind, e.Err)
}

func (e *MailError) Unwrap() error { return e.Err }

func NewMailError(kind MailFailureKind, err error) *MailError {
	return &MailError{Kind: kind, Err: err}
}

// MailMessage is one outgoing email with an optional file attachment.
type MailMessage struct {
	FromName       string
	FromEmail      string
	To             string
	Subject        string
	Body           string
	AttachmentPath string
}

// MailSender delivers a single message. Failures are reported as *MailError
// where the kind is known. Retry policy, if any, belongs to implementations.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}
