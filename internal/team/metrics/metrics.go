package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "khpl_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "khpl_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "khpl_logins_total",
		Help: "Login attempts by result",
	}, []string{"result"})

	invitations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "khpl_invitations_total",
		Help: "Invitation operations by operation and result",
	}, []string{"operation", "result"})

	downlineCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "khpl_downline_cache_lookups_total",
		Help: "Downline cache lookups by result",
	}, []string{"result"})

	treeBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "khpl_team_tree_build_duration_seconds",
		Help:    "Duration of team tree materialization",
		Buckets: prometheus.DefBuckets,
	})

	housekeeping = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "khpl_housekeeping_rows_total",
		Help: "Invitation rows touched by housekeeping",
	}, []string{"action"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func ObserveLogin(result string) {
	logins.WithLabelValues(result).Inc()
}

// ObserveInvitation counts create, fetch and redeem outcomes.
func ObserveInvitation(operation, result string) {
	invitations.WithLabelValues(operation, result).Inc()
}

func ObserveDownlineCache(hit bool) {
	if hit {
		downlineCache.WithLabelValues("hit").Inc()
		return
	}
	downlineCache.WithLabelValues("miss").Inc()
}

func ObserveTreeBuild(duration time.Duration) {
	treeBuildDuration.Observe(duration.Seconds())
}

// ObserveHousekeeping adds n rows for action ("abandoned" or "deleted").
func ObserveHousekeeping(action string, n int64) {
	if n > 0 {
		housekeeping.WithLabelValues(action).Add(float64(n))
	}
}
