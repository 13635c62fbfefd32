package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/cozmicai/waitlist/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ledger metrics

	SignupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waitlist",
		Name:      "signups_total",
		Help:      "Subscribe calls that hit the store, by outcome.",
	}, []string{"outcome"})

	ConfirmationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waitlist",
		Name:      "confirmations_total",
		Help:      "Confirm calls, by outcome.",
	}, []string{"outcome"})

	EmailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waitlist",
		Name:      "emails_total",
		Help:      "Outbound emails, by kind and outcome.",
	}, []string{"kind", "outcome"})

	Subscribers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "waitlist",
		Name:      "subscribers",
		Help:      "Subscriber counts by verification status, refreshed periodically.",
	}, []string{"status"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "waitlist",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "waitlist",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		SignupsTotal,
		ConfirmationsTotal,
		EmailsTotal,
		Subscribers,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the health endpoints on its own listener,
// kept off the public port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Readiness(r.Context()))
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status != "up" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(result)
}
