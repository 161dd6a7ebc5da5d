package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// CityMutations counts add/remove operations by outcome
	CityMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "city_mutations_total", Help: "City add/remove operations by outcome."},
		[]string{"op", "outcome"},
	)
	// TourComputations counts optimizer runs by outcome
	TourComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tour_computations_total", Help: "Tour optimizations by outcome."},
		[]string{"outcome"},
	)
	// TourDuration tracks optimizer wall time in seconds
	TourDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "tour_duration_seconds", Help: "Tour optimization duration in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15}},
	)
	// TourCities tracks how many cities each optimization covered
	TourCities = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "tour_cities", Help: "Cities per tour optimization.", Buckets: []float64{2, 5, 10, 20, 50, 100}},
	)
	// TourDistance is the total distance of the most recent tour
	TourDistance = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "tour_last_distance", Help: "Total distance of the most recent tour."},
	)
	// WebhookDeliveries counts outbound event deliveries by outcome (delivered, retry, dropped)
	WebhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Outbound webhook deliveries by outcome."},
		[]string{"outcome"},
	)
)

// RegisterDefault registers collectors to the API registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(CityMutations)
		Registry.MustRegister(TourComputations)
		Registry.MustRegister(TourDuration)
		Registry.MustRegister(TourCities)
		Registry.MustRegister(TourDistance)
		Registry.MustRegister(WebhookDeliveries)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
