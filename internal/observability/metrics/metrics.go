package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	obserrors "github.com/ibmec/pict-api/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

var httpBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// Metrics holds the Prometheus collectors for the API. A nil *Metrics is
// valid and records nothing, which keeps unit tests free of registries.
type Metrics struct {
	Logins          *prometheus.CounterVec
	UsersCreated    *prometheus.CounterVec
	AuthFailures    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	ProjectsCreated prometheus.Counter
	Uploads         prometheus.Counter
}

// New creates the collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer in production.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pict_logins_total",
			Help: "Completed login callbacks by role and result",
		}, []string{"role", "result"}),
		UsersCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pict_users_created_total",
			Help: "Local user records created on first login",
		}, []string{"role"}),
		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pict_auth_failures_total",
			Help: "Rejected logins and session tokens by error class",
		}, []string{"stage", "error_class"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pict_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: httpBuckets,
		}, []string{"method", "route", "status"}),
		ProjectsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "pict_projects_created_total",
			Help: "Research projects submitted by students",
		}),
		Uploads: f.NewCounter(prometheus.CounterOpts{
			Name: "pict_document_uploads_total",
			Help: "Documents uploaded by students",
		}),
	}
}

// ObserveLogin records the outcome of a login callback.
func (m *Metrics) ObserveLogin(role string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
		m.AuthFailures.WithLabelValues("login", obserrors.Classify(err)).Inc()
	}
	if role == "" {
		role = "unknown"
	}
	m.Logins.WithLabelValues(role, result).Inc()
}

// IncUserCreated records a first-login record creation.
func (m *Metrics) IncUserCreated(role string) {
	if m == nil {
		return
	}
	m.UsersCreated.WithLabelValues(role).Inc()
}

// IncTokenRejected records a request refused by the session gate.
func (m *Metrics) IncTokenRejected(err error) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues("token", obserrors.Classify(err)).Inc()
}

// IncProjectCreated records a project submission.
func (m *Metrics) IncProjectCreated() {
	if m == nil {
		return
	}
	m.ProjectsCreated.Inc()
}

// IncUpload records a stored document.
func (m *Metrics) IncUpload() {
	if m == nil {
		return
	}
	m.Uploads.Inc()
}

// ObserveHTTP records one served request. route should be the router
// pattern, never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
