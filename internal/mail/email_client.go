package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"
)

// TokenHeader carries the API credential on every request
const TokenHeader = "X-Postmark-Server-Token"

type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// StatusError is returned when the email API answers with a non 2xx code
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("email api responded with status %d: %s", e.StatusCode, e.Body)
}

// EmailClient posts emails to a Postmark-style HTTP API
type EmailClient struct {
	http    *http.Client
	baseURL string
	sender  string
	token   string
}

func NewEmailClient(baseURL, sender, token string, timeout time.Duration) (*EmailClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("email client: base url is required")
	}

	if _, err := mail.ParseAddress(sender); err != nil {
		return nil, fmt.Errorf("email client: invalid sender address, %w", err)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &EmailClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		sender:  sender,
		token:   token,
	}, nil
}

func (c *EmailClient) SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(sendEmailRequest{
		From:     c.sender,
		To:       to,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("email client: failed to encode request, %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("email client: failed to build request, %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(TokenHeader, c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("email client: request failed, %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
