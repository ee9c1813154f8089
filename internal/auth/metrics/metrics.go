//nolint:gochecknoglobals
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lectern"

var (
	invitesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invites_issued_total",
		Help:      "Invites issued, by whether a pending invite was reused.",
	}, []string{"result"})

	invitesConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invites_consumed_total",
		Help:      "Invite consume attempts by outcome.",
	}, []string{"outcome"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by mode and outcome.",
	}, []string{"mode", "outcome"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Invite notifications by channel and outcome.",
	}, []string{"channel", "outcome"})

	invites = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "invites",
		Help:      "Invites per state at the last housekeeping run.",
	}, []string{"state"})

	httpRequestsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "The latency of the HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "code"})
)

// Issue results.
const (
	IssueCreated = "created"
	IssueReused  = "reused"
)

// Outcomes shared by the counters.
const (
	OutcomeOK            = "ok"
	OutcomeNotFound      = "not_found"
	OutcomeEmailMismatch = "email_mismatch"
	OutcomeAlreadyUsed   = "already_used"
	OutcomeExpired       = "expired"
	OutcomeInvalid       = "invalid"
	OutcomeError         = "error"
	OutcomeFailed        = "failed"
)

func InviteIssued(result string) { invitesIssued.WithLabelValues(result).Inc() }
func InviteConsumed(outcome string) { invitesConsumed.WithLabelValues(outcome).Inc() }
func Login(mode, outcome string) { logins.WithLabelValues(mode, outcome).Inc() }
func Notification(channel, outcome string) { notifications.WithLabelValues(channel, outcome).Inc() }

// SetInviteCounts publishes a state snapshot.
func SetInviteCounts(c domain.InviteCounts) {
	invites.WithLabelValues(string(domain.InviteStatePending)).Set(float64(c.Pending))
	invites.WithLabelValues(string(domain.InviteStateConsumed)).Set(float64(c.Consumed))
	invites.WithLabelValues(string(domain.InviteStateExpired)).Set(float64(c.Expired))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{})
}

// HTTPMiddleware records request latency labelled by the matched route
// pattern. It must wrap the ServeMux directly: the mux records the pattern
// on the request it is handed.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequestsDuration.With(prometheus.Labels{
			"route":  route,
			"method": r.Method,
			"code":   strconv.Itoa(rw.status),
		}).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter

	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
