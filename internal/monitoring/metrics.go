package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Generation loop metrics
	generationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evolvers_generations_total",
			Help: "Total number of generations bred",
		},
		[]string{"strategy"},
	)

	mutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evolvers_mutations_total",
			Help: "Total number of entities mutated",
		},
		[]string{"strategy"},
	)

	mutationCount = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evolvers_mutation_count",
			Help:    "Distribution of entities mutated per generation",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"strategy"},
	)

	// Fitness metrics
	bestFitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evolvers_best_fitness",
			Help: "Best fitness of the current generation",
		},
		[]string{"experiment"},
	)

	meanFitness = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evolvers_mean_fitness",
			Help: "Mean fitness of the current generation",
		},
		[]string{"experiment"},
	)

	// Error metrics
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evolvers_errors_total",
			Help: "Total number of errors by category",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(generationsTotal)
	prometheus.MustRegister(mutationsTotal)
	prometheus.MustRegister(mutationCount)
	prometheus.MustRegister(bestFitness)
	prometheus.MustRegister(meanFitness)
	prometheus.MustRegister(errorsTotal)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordGeneration counts one bred generation and the mutations applied to it
func RecordGeneration(strategy string, mutations int) {
	generationsTotal.WithLabelValues(strategy).Inc()
	mutationsTotal.WithLabelValues(strategy).Add(float64(mutations))
	mutationCount.WithLabelValues(strategy).Observe(float64(mutations))
}

// UpdateFitness sets the fitness gauges for an experiment
func UpdateFitness(experiment string, best, mean float64) {
	bestFitness.WithLabelValues(experiment).Set(best)
	meanFitness.WithLabelValues(experiment).Set(mean)
}

// RecordError records an error metric
func RecordError(category string) {
	if category == "" {
		category = "UNKNOWN"
	}
	errorsTotal.WithLabelValues(category).Inc()
}
