package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/festpass/festpass-api/internal/config"
)

type SendMailInput struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Client is an explicitly constructed SMTP client; it gets injected where mail
// is sent instead of living in process-wide scope.
type Client struct {
	smtp     *mail.Client
	from     string
	fromName string
}

func NewClient(conf *config.SMTPConfig) (*Client, error) {
	host := conf.Host
	port := conf.Port

	// Provider presets; "default" uses the configured host and port as-is.
	switch conf.Provider {
	case "gmail":
		host = "smtp.gmail.com"
		port = 587
	case "sendgrid":
		host = "smtp.sendgrid.net"
		port = 587
	}

	smtp, err := mail.NewClient(host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(conf.Username),
		mail.WithPassword(conf.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("mail.NewClient -> %w", err)
	}

	return &Client{
		smtp:     smtp,
		from:     conf.From,
		fromName: conf.FromName,
	}, nil
}

func (c *Client) Send(ctx context.Context, input SendMailInput) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(c.fromName, c.from); err != nil {
		return fmt.Errorf("msg.FromFormat -> %w", err)
	}
	if err := msg.To(input.To...); err != nil {
		return fmt.Errorf("msg.To -> %w", err)
	}
	msg.Subject(input.Subject)
	if input.HTML {
		msg.SetBodyString(mail.TypeTextHTML, input.Body)
	} else {
		msg.SetBodyString(mail.TypeTextPlain, input.Body)
	}

	if err := c.smtp.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("c.smtp.DialAndSendWithContext -> %w", err)
	}

	return nil
}
