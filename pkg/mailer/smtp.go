package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

type smtpSender struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPSender creates a sender that relays through an upstream SMTP server.
func NewSMTPSender(cfg Config) (Sender, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("%w: SMTP_HOST is required", ErrInvalidConfig)
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return nil, fmt.Errorf("%w: invalid SMTP_PORT %d", ErrInvalidConfig, cfg.SMTPPort)
	}
	if !emailRegex.MatchString(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: MAILER_SENDER_EMAIL must be a valid address", ErrInvalidConfig)
	}

	return &smtpSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUsername,
		pass: cfg.SMTPPassword,
		from: cfg.SenderEmail,
	}, nil
}

// Send relays the message upstream. The SMTP client has no context support,
// so the transfer runs in a goroutine and a cancelled context turns into a
// delivery failure; a send already in flight may still complete server-side.
func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.relay(msg) }()

	select {
	case <-ctx.Done():
		return errors.Join(ErrSendFailed, ctx.Err())
	case err := <-errCh:
		return err
	}
}

func (s *smtpSender) relay(msg Message) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	tlsConfig := &tls.Config{ServerName: s.host}

	var client *smtp.Client
	var err error

	switch s.port {
	case 465:
		client, err = smtp.DialTLS(addr, tlsConfig)
	case 587:
		client, err = smtp.DialStartTLS(addr, tlsConfig)
	default:
		client, err = smtp.Dial(addr)
	}
	if err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("connect to %s: %w", addr, err))
	}
	defer client.Close()

	if s.user != "" {
		auth := sasl.NewPlainClient("", s.user, s.pass)
		if err := client.Auth(auth); err != nil {
			return errors.Join(ErrSendFailed, fmt.Errorf("auth: %w", err))
		}
	}

	if err := client.SendMail(s.from, []string{msg.To}, bytes.NewReader(s.render(msg))); err != nil {
		return errors.Join(ErrSendFailed, fmt.Errorf("send: %w", err))
	}

	// Quit errors are non-fatal: the message is already accepted upstream.
	_ = client.Quit()

	return nil
}

// render assembles the RFC 5322 message.
func (s *smtpSender) render(msg Message) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.ReplyTo)
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	body := msg.BodyHTML
	contentType := "text/html; charset=utf-8"
	if body == "" {
		body = msg.BodyText
		contentType = "text/plain; charset=utf-8"
	}
	fmt.Fprintf(&b, "Content-Type: %s\r\n", contentType)
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	return b.Bytes()
}
