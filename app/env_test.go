package app_test

import (
	"bitwise74/newsletter-api/app"
	"bitwise74/newsletter-api/config"
	"bitwise74/newsletter-api/db/dbtest"
	"bitwise74/newsletter-api/internal"
	"bitwise74/newsletter-api/internal/mail"
	"bitwise74/newsletter-api/internal/metrics"
	"bitwise74/newsletter-api/internal/model"
	"bitwise74/newsletter-api/internal/service"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testToken = "test-server-token"

func init() {
	gin.SetMode(gin.TestMode)
}

type outboundEmail struct {
	From     string
	To       string
	Subject  string
	HtmlBody string
	TextBody string
}

// emailAPI stands in for the mail provider and records every request
type emailAPI struct {
	srv *httptest.Server

	mu     sync.Mutex
	emails []outboundEmail
	status int
}

func newEmailAPI(t *testing.T) *emailAPI {
	t.Helper()

	api := &emailAPI{status: http.StatusOK}
	api.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var e outboundEmail
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &e))
		assert.Equal(t, testToken, r.Header.Get(mail.TokenHeader))

		api.mu.Lock()
		api.emails = append(api.emails, e)
		status := api.status
		api.mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(api.srv.Close)

	return api
}

func (a *emailAPI) failWith(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
}

func (a *emailAPI) Emails() []outboundEmail {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]outboundEmail(nil), a.emails...)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	api    *emailAPI
	router *gin.Engine
}

func testSettings(mailURL string) *config.Settings {
	return &config.Settings{
		Environment: "local",
		Application: config.ApplicationSettings{
			Host:         "127.0.0.1",
			Port:         0,
			BaseURL:      "http://127.0.0.1:8000",
			LogLevel:     "debug",
			MaxBodyBytes: 1 << 10,
			RateLimit:    config.RateLimitSettings{},
		},
		Database: config.DatabaseSettings{Driver: "sqlite"},
		EmailClient: config.EmailClientSettings{
			Transport:           "api",
			BaseURL:             mailURL,
			SenderEmail:         "newsletter@example.com",
			AuthorizationToken:  testToken,
			TimeoutMilliseconds: 2000,
		},
	}
}

func newTestEnv(t *testing.T, mutate ...func(*config.Settings)) *testEnv {
	t.Helper()

	api := newEmailAPI(t)
	s := testSettings(api.srv.URL)
	for _, m := range mutate {
		m(s)
	}

	sender, err := mail.NewSender(s.EmailClient)
	require.NoError(t, err)

	gdb := dbtest.Open(t)
	m := metrics.New()
	log := zap.NewNop()

	subs, err := service.NewSubscriptions(gdb, sender, s.Application.BaseURL, log, m)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	d := &internal.Deps{
		Settings:      s,
		DB:            gdb,
		Log:           log,
		Metrics:       m,
		Subscriptions: subs,
	}

	return &testEnv{t: t, db: gdb, api: api, router: app.NewRouter(ctx, d)}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postSubscription(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) getPath(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) subscriptions() []model.Subscription {
	e.t.Helper()

	var subs []model.Subscription
	require.NoError(e.t, e.db.Order("subscribed_at").Find(&subs).Error)
	return subs
}

var linkRe = regexp.MustCompile(`https?://[^\s"<>)\]]+`)

// confirmationLinks pulls the confirmation URL out of both bodies of an
// outbound email
func confirmationLinks(t *testing.T, e outboundEmail) (html, text *url.URL) {
	t.Helper()

	find := func(body string) *url.URL {
		for _, raw := range linkRe.FindAllString(body, -1) {
			raw = strings.ReplaceAll(raw, "&amp;", "&")
			u, err := url.Parse(raw)
			require.NoError(t, err)

			if u.Path == "/subscriptions/confirm" {
				return u
			}
		}

		t.Fatalf("no confirmation link in %q", body)
		return nil
	}

	return find(e.HtmlBody), find(e.TextBody)
}
