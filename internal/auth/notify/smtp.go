package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier mails the invite link to the invitee.
type SMTPNotifier struct {
	from string
	send func(ctx context.Context, msgs ...*mail.Msg) error
}

// NewSMTPNotifier builds the client up front; connections are made per send.
// Auth is only negotiated when a username is configured.
func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("notify: SMTP host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("notify: SMTP from address is required")
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: smtp client: %w", err)
	}

	return &SMTPNotifier{from: cfg.From, send: client.DialAndSendWithContext}, nil
}

func (n *SMTPNotifier) Channel() string { return "smtp" }

func (n *SMTPNotifier) Notify(ctx context.Context, m Message) error {
	msg, err := n.buildMessage(m)
	if err != nil {
		return err
	}
	if err := n.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("notify: from address: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("notify: recipient address: %w", err)
	}
	msg.Subject(m.Subject())
	msg.SetBodyString(mail.TypeTextPlain, m.Body())
	return msg, nil
}
