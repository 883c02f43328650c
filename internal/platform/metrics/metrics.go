package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder collects application metrics for merges, disputes, notifications and HTTP traffic.
type Recorder interface {
	IncMergeRequest(kind, outcome string)
	ObserveMergeApply(kind string, seconds float64)
	IncDisputeSubmission(state string)
	IncNotification(channel, outcome string)
	ObserveHTTPRequest(method, route string, status int, seconds float64)
}

var (
	_ Recorder = (*Service)(nil)
	_ Recorder = Nop{}
)

type Service struct {
	MergeRequests       *prometheus.CounterVec
	MergeApplyDuration  *prometheus.HistogramVec
	DisputeSubmissions  *prometheus.CounterVec
	Notifications       *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the collectors.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		MergeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamsheet_merge_requests_total",
			Help: "Merge request transitions by kind (record, team) and outcome.",
		}, []string{"kind", "outcome"}),
		MergeApplyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teamsheet_merge_apply_duration_seconds",
			Help:    "Duration of transactional merge application.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),
		DisputeSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamsheet_dispute_submissions_total",
			Help: "Dispute score submissions by resulting state.",
		}, []string{"state"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamsheet_notifications_total",
			Help: "Notification deliveries by channel and outcome.",
		}, []string{"channel", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamsheet_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "teamsheet_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		s.MergeRequests,
		s.MergeApplyDuration,
		s.DisputeSubmissions,
		s.Notifications,
		s.HTTPRequests,
		s.HTTPRequestDuration,
	)

	return s
}

func (s *Service) IncMergeRequest(kind, outcome string) {
	s.MergeRequests.WithLabelValues(kind, outcome).Inc()
}

func (s *Service) ObserveMergeApply(kind string, seconds float64) {
	s.MergeApplyDuration.WithLabelValues(kind).Observe(seconds)
}

func (s *Service) IncDisputeSubmission(state string) {
	s.DisputeSubmissions.WithLabelValues(state).Inc()
}

func (s *Service) IncNotification(channel, outcome string) {
	s.Notifications.WithLabelValues(channel, outcome).Inc()
}

func (s *Service) ObserveHTTPRequest(method, route string, status int, seconds float64) {
	s.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// Nop discards everything. It is the default when metrics are disabled.
type Nop struct{}

func (Nop) IncMergeRequest(string, string)                  {}
func (Nop) ObserveMergeApply(string, float64)               {}
func (Nop) IncDisputeSubmission(string)                     {}
func (Nop) IncNotification(string, string)                  {}
func (Nop) ObserveHTTPRequest(string, string, int, float64) {}
