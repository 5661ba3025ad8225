package mail

import (
	"bitwise74/newsletter-api/config"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	gomail "github.com/go-mail/mail"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends multipart/alternative messages through an SMTP relay
type SMTPSender struct {
	dialer dialer
	sender string
}

func NewSMTPSender(cfg config.SMTPSettings, sender string, timeout time.Duration) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp: host is required")
	}

	if cfg.Port == 0 {
		return nil, errors.New("smtp: port is required")
	}

	if _, err := mail.ParseAddress(sender); err != nil {
		return nil, fmt.Errorf("smtp: invalid sender address, %w", err)
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if timeout > 0 {
		d.Timeout = timeout
	}

	return &SMTPSender{dialer: d, sender: sender}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.message(to, subject, htmlBody, textBody)); err != nil {
		return fmt.Errorf("smtp: failed to send, %w", err)
	}

	return nil
}

func (s *SMTPSender) message(to, subject, htmlBody, textBody string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	return m
}
