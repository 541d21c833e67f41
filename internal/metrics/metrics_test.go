package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaybackLifecycle(t *testing.T) {
	m := New()

	done := m.PlaybackStarted("boot", "sse")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.playbacksActive.WithLabelValues("boot")))

	done(OutcomeCancelled)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.playbacksActive.WithLabelValues("boot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.playbacks.WithLabelValues("boot", "sse", OutcomeCancelled)))
}

func TestHandlerServesCounters(t *testing.T) {
	m := New()
	m.PageView("/")
	m.PageView("/")
	m.ContactSubmitted("sent")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `bsquared_page_views_total{route="/"} 2`)
	assert.Contains(t, body, `bsquared_contact_submissions_total{result="sent"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.PageView("/")
	m.ContactSubmitted("failed")
	m.PlaybackStarted("boot", "ws")(OutcomeCompleted)
}
