package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/angelmondragon/castcall-backend/pkg/config"
)

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendgridMailer delivers messages through the SendGrid v3 mail API.
type SendgridMailer struct {
	client sendClient
	from   *mail.Email
}

func NewSendgridMailer(cfg config.SendgridConfig) (*SendgridMailer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if strings.TrimSpace(cfg.DefaultFrom) == "" {
		return nil, errors.New("sendgrid from address is required")
	}
	return &SendgridMailer{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.DefaultFrom),
	}, nil
}

func (s *SendgridMailer) Send(ctx context.Context, msg Message) error {
	to := msg.recipients()
	if len(to) == 0 {
		return errNoRecipients
	}

	resp, err := s.client.SendWithContext(ctx, s.build(msg, to))
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp == nil {
		return errors.New("sendgrid send: empty response")
	}
	if resp.StatusCode >= 300 {
		body := resp.Body
		if len(body) > 512 {
			body = body[:512]
		}
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, strings.TrimSpace(body))
	}
	return nil
}

func (s *SendgridMailer) build(msg Message, to []string) *mail.SGMailV3 {
	m := mail.NewV3Mail()
	m.SetFrom(s.from)
	m.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, addr := range to {
		p.AddTos(mail.NewEmail("", addr))
	}
	m.AddPersonalizations(p)

	// SendGrid requires text/plain to precede text/html.
	if msg.Text != "" {
		m.AddContent(mail.NewContent("text/plain", msg.Text))
	}
	if msg.HTML != "" {
		m.AddContent(mail.NewContent("text/html", msg.HTML))
	}
	if replyTo := strings.TrimSpace(msg.ReplyTo); replyTo != "" {
		m.SetReplyTo(mail.NewEmail("", replyTo))
	}
	return m
}
