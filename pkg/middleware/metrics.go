package middleware

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worktracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "code"},
	)
	authAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worktracker_auth_attempts_total",
			Help: "Total sign-in attempts by outcome",
		},
		[]string{"success"},
	)
	toggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worktracker_session_toggles_total",
			Help: "Tracking toggles by resulting state",
		},
		[]string{"state"},
	)
)

// Prometheus records request duration labelled by route template, so ids in
// paths do not explode the label set.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := "unmatched"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		observer := httpRequestDuration.MustCurryWith(prometheus.Labels{"path": path})
		promhttp.InstrumentHandlerDuration(observer, next).ServeHTTP(w, r)
	})
}

func RecordAuthAttempt(success bool) {
	authAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func RecordToggle(active bool) {
	state := "stopped"
	if active {
		state = "started"
	}
	toggles.WithLabelValues(state).Inc()
}
