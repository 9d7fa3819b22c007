package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felixgeelhaar/huddle/internal/meetings/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordDecision(t *testing.T) {
	m := NewMetrics()

	m.RecordDecision(domain.TypeOpen, domain.OutcomeAllowed)
	m.RecordDecision(domain.TypeOpen, domain.OutcomeAllowed)
	m.RecordDecision(domain.TypeDirectInvite, domain.OutcomeDeniedNotInvited)
	m.RecordDecision("", domain.OutcomeNotFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AccessDecisions.WithLabelValues("open", "allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessDecisions.WithLabelValues("direct-invite", "denied_not_invited")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessDecisions.WithLabelValues("unknown", "not_found")))
}

func TestMetrics_WorkerCounters(t *testing.T) {
	m := NewMetrics()

	m.ObserveOutbox(func() OutboxStats {
		return OutboxStats{Published: 3, Failed: 1, Dead: 0, LagSeconds: 0.5}
	})
	m.RecordConsumed("meetings.meeting.created", nil)
	m.RecordConsumed("meetings.meeting.created", errors.New("boom"))
	m.RecordNotification("info")

	count, err := testutil.GatherAndCount(m.Registry(), "huddle_outbox_published_total", "huddle_outbox_lag_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(`
# HELP huddle_outbox_failed_total Outbox publish attempts that failed
# TYPE huddle_outbox_failed_total counter
huddle_outbox_failed_total 1
`), "huddle_outbox_failed_total"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("meetings.meeting.created", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsConsumed.WithLabelValues("meetings.meeting.created", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsOut.WithLabelValues("info")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordDecision(domain.TypeOpen, domain.OutcomeAllowed)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `huddle_access_decisions_total{meeting_type="open",outcome="allowed"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
