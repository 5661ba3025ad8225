package mail

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

const ConfirmationSubject = "Welcome!"

// The markdown source doubles as the plain text body
var confirmationTemplate = template.Must(template.New("confirmation").Parse(
	`Welcome to our newsletter, {{.Name}}!

Visit [{{.Link}}]({{.Link}}) to confirm your subscription.

If you did not sign up you can ignore this email.
`))

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Typographer),
	goldmark.WithRendererOptions(htmlrenderer.WithXHTML()),
)

type Email struct {
	Subject  string
	HtmlBody string
	TextBody string
}

// ConfirmationLink builds the link a subscriber follows to confirm
func ConfirmationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s",
		strings.TrimRight(baseURL, "/"), url.QueryEscape(token))
}

// ConfirmationEmail renders the welcome message for name. The HTML and
// text bodies point at the same link.
func ConfirmationEmail(name, link string) (*Email, error) {
	var src bytes.Buffer
	if err := confirmationTemplate.Execute(&src, struct{ Name, Link string }{name, link}); err != nil {
		return nil, fmt.Errorf("failed to render confirmation template, %w", err)
	}

	var html bytes.Buffer
	if err := markdown.Convert(src.Bytes(), &html); err != nil {
		return nil, fmt.Errorf("failed to render confirmation html, %w", err)
	}

	return &Email{
		Subject:  ConfirmationSubject,
		HtmlBody: html.String(),
		TextBody: plainText(src.String(), link),
	}, nil
}

// plainText turns the markdown link syntax into the bare URL
func plainText(src, link string) string {
	return strings.ReplaceAll(src, "["+link+"]("+link+")", link)
}
