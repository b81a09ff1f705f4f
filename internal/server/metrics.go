package server

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	throttled prometheus.Counter
	todos     prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gotodo",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gotodo",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		throttled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gotodo",
			Name:      "http_requests_throttled_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		todos: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gotodo",
			Name:      "todos",
			Help:      "Number of todos as of the last list request.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.throttled, m.todos)
	return m
}
