package monitoring

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Run states reported by HealthChecker
const (
	StatusStarting  = "starting"
	StatusRunning   = "running"
	StatusConverged = "converged"
	StatusExhausted = "exhausted"
	StatusFailed    = "failed"
)

// HealthChecker tracks the progress of one run and serves it as JSON
type HealthChecker struct {
	mu             sync.RWMutex
	startTime      time.Time
	experiment     string
	status         string
	generation     int
	maxGenerations int
	lastGeneration time.Time
	bestFitness    float64
	meanFitness    float64
	errors         []string
}

type HealthStatus struct {
	Status         string    `json:"status"`
	Experiment     string    `json:"experiment"`
	Timestamp      time.Time `json:"timestamp"`
	Generation     int       `json:"generation"`
	MaxGenerations int       `json:"max_generations"`
	LastGeneration time.Time `json:"last_generation"`
	BestFitness    float64   `json:"best_fitness"`
	MeanFitness    float64   `json:"mean_fitness"`
	Uptime         string    `json:"uptime"`
	Errors         []string  `json:"errors,omitempty"`
}

func NewHealthChecker(experiment string, maxGenerations int) *HealthChecker {
	return &HealthChecker{
		startTime:      time.Now(),
		experiment:     experiment,
		status:         StatusStarting,
		maxGenerations: maxGenerations,
		errors:         make([]string, 0),
	}
}

// UpdateGeneration records the latest finished generation
func (h *HealthChecker) UpdateGeneration(generation int, best, mean float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.status = StatusRunning
	h.generation = generation
	h.lastGeneration = time.Now()
	h.bestFitness = best
	h.meanFitness = mean
}

// Finish marks the run as converged or as out of generations
func (h *HealthChecker) Finish(converged bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if converged {
		h.status = StatusConverged
	} else {
		h.status = StatusExhausted
	}
}

// RecordError marks the run as failed
func (h *HealthChecker) RecordError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.status = StatusFailed
	h.errors = append(h.errors, err.Error())
}

// Snapshot returns the current status
func (h *HealthChecker) Snapshot() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HealthStatus{
		Status:         h.status,
		Experiment:     h.experiment,
		Timestamp:      time.Now(),
		Generation:     h.generation,
		MaxGenerations: h.maxGenerations,
		LastGeneration: h.lastGeneration,
		BestFitness:    h.bestFitness,
		MeanFitness:    h.meanFitness,
		Uptime:         time.Since(h.startTime).String(),
		Errors:         append([]string(nil), h.errors...),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if health.Status == StatusFailed {
		w.WriteHeader(http.StatusInternalServerError)
	}
	json.NewEncoder(w).Encode(health)
}
