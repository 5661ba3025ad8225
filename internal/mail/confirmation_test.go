package mail

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	hrefRe = regexp.MustCompile(`href="([^"]+)"`)
	urlRe  = regexp.MustCompile(`https?://\S+`)
)

func TestConfirmationLink(t *testing.T) {
	assert.Equal(t,
		"http://127.0.0.1:8000/subscriptions/confirm?subscription_token=abc123",
		ConfirmationLink("http://127.0.0.1:8000/", "abc123"))
}

func TestConfirmationEmailBodiesShareTheLink(t *testing.T) {
	link := ConfirmationLink("https://news.example.com", "Xy7aBcDeFgHiJkLmNoPqRsTuV")

	e, err := ConfirmationEmail("le guin", link)
	require.NoError(t, err)

	assert.Equal(t, ConfirmationSubject, e.Subject)
	assert.Contains(t, e.HtmlBody, "le guin")
	assert.Contains(t, e.TextBody, "le guin")

	htmlLinks := hrefRe.FindAllStringSubmatch(e.HtmlBody, -1)
	require.Len(t, htmlLinks, 1)

	textLinks := urlRe.FindAllString(e.TextBody, -1)
	require.Len(t, textLinks, 1)

	assert.Equal(t, link, htmlLinks[0][1])
	assert.Equal(t, link, textLinks[0])
	assert.NotContains(t, e.TextBody, "](", "text body should not contain markdown link syntax")
}
