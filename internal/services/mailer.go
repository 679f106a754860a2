package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrMailerNotConfigured = errors.New("SENDGRID_API_KEY is not configured")

// Mail is a plain-text message.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Mailer delivers a message and returns the relay's receipt id.
type Mailer interface {
	Send(ctx context.Context, m Mail) (string, error)
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridMailer sends mail through the SendGrid v3 API.
type SendGridMailer struct {
	client   sendClient
	fromName string
	from     string
}

func NewSendGridMailer(apiKey, fromName, from string) *SendGridMailer {
	m := &SendGridMailer{fromName: fromName, from: from}
	if apiKey != "" {
		m.client = sendgrid.NewSendClient(apiKey)
	}
	return m
}

func (m *SendGridMailer) Send(ctx context.Context, msg Mail) (string, error) {
	if m.client == nil || m.from == "" {
		return "", ErrMailerNotConfigured
	}

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(m.fromName, m.from))
	message.Subject = msg.Subject
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	message.AddPersonalizations(p)
	message.AddContent(mail.NewContent("text/plain", msg.Text))
	if msg.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail("", msg.ReplyTo))
	}

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("send mail to %s: sendgrid status %d: %s", msg.To, resp.StatusCode, resp.Body)
	}
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}
