// Package observe holds the logger setup and Prometheus collectors.
package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "locator_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "locator_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	StoreQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "locator_store_query_duration_seconds",
		Help:    "Latency of queries against the pharmacy store.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query", "outcome"})

	InvalidCoordinates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "locator_invalid_coordinates_total",
		Help: "Pharmacy rows skipped by radius search for missing or unparsable coordinates.",
	})
)

// Register must be called once from main.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests, HTTPDuration, StoreQueryDuration, InvalidCoordinates)
}

// Handler serves the default gatherer.
func Handler() http.Handler { return promhttp.Handler() }
