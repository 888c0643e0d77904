package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

// ErrRelay covers any transport or provider side failure while
// forwarding a contact message
var ErrRelay = errors.New("relay failed")

var _ Mailer = (*SMTPMailer)(nil)

type Mailer interface {
	Send(ctx context.Context, submission Submission) error
}

type SMTPMailerParams struct {
	Host     string
	Port     int
	Username string
	Password string
	// ToAddr receives the relayed contact messages
	ToAddr string
}

// SMTPMailer forwards contact submissions as plain text emails.
// One synchronous send per submission, no queuing, no retry.
type SMTPMailer struct {
	client *mail.Client
	from   string
	toAddr string
}

func NewSMTPMailer(params SMTPMailerParams) (*SMTPMailer, error) {
	client, err := mail.NewClient(
		params.Host,
		mail.WithPort(params.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(params.Username),
		mail.WithPassword(params.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("new smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   params.Username,
		toAddr: params.ToAddr,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, submission Submission) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("%w: set from: %s", ErrRelay, err)
	}
	if err := msg.To(m.toAddr); err != nil {
		return fmt.Errorf("%w: set to: %s", ErrRelay, err)
	}
	if err := msg.ReplyTo(submission.GMail); err != nil {
		return fmt.Errorf("%w: set reply-to: %s", ErrRelay, err)
	}

	msg.Subject(fmt.Sprintf("Nuevo mensaje de contacto de %s", submission.GName))
	msg.SetBodyString(mail.TypeTextPlain, submission.EmailBody())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s", ErrRelay, err)
	}

	return nil
}
