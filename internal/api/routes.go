package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"citytour/internal/metrics"
)

// Routes builds the service mux wrapped in access logging and HTTP metrics.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Cities
	mux.HandleFunc("/v1/cities", s.CitiesHandler)
	mux.HandleFunc("/v1/cities/", s.CityByNameHandler)

	// Tour
	mux.HandleFunc("/v1/tour", s.TourHandler)
	mux.HandleFunc("/v1/admin/tour-metrics", s.TourMetricsHandler)

	// Events
	mux.HandleFunc("/v1/events/stream", s.EventsStreamHandler)
	mux.HandleFunc("/v1/events/ws", s.EventsWSHandler)

	// Health, metrics, debug
	mux.HandleFunc("/healthz", s.HealthHandler)
	mux.HandleFunc("/readyz", s.ReadyHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/debug/info", s.DebugJSON)

	return s.logMiddleware(mux)
}
