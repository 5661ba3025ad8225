// Package mail delivers transactional email, either through an HTTP
// email API or over SMTP.
package mail

import (
	"bitwise74/newsletter-api/config"
	"context"
	"fmt"
)

// Sender delivers a single email. Implementations make exactly one
// delivery attempt and never retry.
type Sender interface {
	SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// NewSender builds the Sender selected by the email_client.transport setting
func NewSender(cfg config.EmailClientSettings) (Sender, error) {
	switch cfg.Transport {
	case "", "api":
		return NewEmailClient(cfg.BaseURL, cfg.SenderEmail, cfg.AuthorizationToken, cfg.Timeout())
	case "smtp":
		return NewSMTPSender(cfg.SMTP, cfg.SenderEmail, cfg.Timeout())
	default:
		return nil, fmt.Errorf("unsupported email transport %q", cfg.Transport)
	}
}
