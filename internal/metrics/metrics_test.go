package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()

	a.Subscriptions.WithLabelValues(OutcomeOK).Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Subscriptions.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Subscriptions.WithLabelValues(OutcomeOK)))
}

func TestHandlerServesRegisteredSeries(t *testing.T) {
	m := New()
	m.Confirmations.WithLabelValues(OutcomeUnknownToken).Inc()
	m.StalePending.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `newsletter_confirmations_total{outcome="unknown_token"} 1`)
	assert.Contains(t, string(body), "newsletter_stale_pending_subscriptions 3")
}
