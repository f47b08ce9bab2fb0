package experiment

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ducminhle1904/evolvers/pkg/reporting"
)

// TrialFunc runs one independent experiment with its own seed
type TrialFunc func(ctx context.Context, seed uint64) (reporting.RunSummary, error)

// Trial is a single seeded run submitted to a WorkerPool
type Trial struct {
	ID   int
	Seed uint64
	Run  TrialFunc
}

// TrialResult is the outcome of a Trial
type TrialResult struct {
	ID       int
	Seed     uint64
	Summary  reporting.RunSummary
	Duration time.Duration
	Err      error
}

// WorkerPool runs trials in parallel. Every trial owns its random source, so
// workers share nothing but the result channel.
type WorkerPool struct {
	workerCount int
	jobQueue    chan Trial
	resultQueue chan TrialResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewWorkerPool creates a pool; workerCount <= 0 means one worker per CPU
func NewWorkerPool(ctx context.Context, workerCount, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan Trial, jobBufferSize),
		resultQueue: make(chan TrialResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start starts the workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop waits for queued trials to finish and closes the result channel.
// No trial may be submitted once Stop has been called.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit queues a trial
func (wp *WorkerPool) Submit(trial Trial) error {
	select {
	case wp.jobQueue <- trial:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the channel completed trials are delivered on
func (wp *WorkerPool) Results() <-chan TrialResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case trial, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.process(trial)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) process(trial Trial) TrialResult {
	start := time.Now()
	summary, err := trial.Run(wp.ctx, trial.Seed)
	return TrialResult{
		ID:       trial.ID,
		Seed:     trial.Seed,
		Summary:  summary,
		Duration: time.Since(start),
		Err:      err,
	}
}

// BatchSummary aggregates the final generation of several trials
type BatchSummary struct {
	Trials          int
	Failed          int
	Converged       int
	MeanGenerations float64
	MeanFinalMean   float64
	StdFinalMean    float64
	BestFitness     float64
	BestSeed        uint64
}

// RunBatch runs one trial per seed on workers goroutines and returns the
// results ordered by trial ID.
func RunBatch(ctx context.Context, seeds []uint64, workers int, run TrialFunc) ([]TrialResult, error) {
	pool := NewWorkerPool(ctx, workers, len(seeds))
	pool.Start()

	submitted := 0
	var submitErr error
	for i, seed := range seeds {
		if err := pool.Submit(Trial{ID: i, Seed: seed, Run: run}); err != nil {
			submitErr = err
			break
		}
		submitted++
	}

	go pool.Stop()

	results := make([]TrialResult, 0, submitted)
	for result := range pool.Results() {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	if submitErr != nil {
		return results, submitErr
	}
	return results, ctx.Err()
}

// Summarize aggregates successful trials. better decides which final best
// fitness wins.
func Summarize(results []TrialResult, better func(a, b float64) bool) BatchSummary {
	summary := BatchSummary{Trials: len(results)}

	var generations, finalMeans []float64
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		if r.Summary.Converged {
			summary.Converged++
		}
		generations = append(generations, float64(r.Summary.Generations))
		finalMeans = append(finalMeans, r.Summary.Final.Mean)

		if len(finalMeans) == 1 || better(r.Summary.Final.Best, summary.BestFitness) {
			summary.BestFitness = r.Summary.Final.Best
			summary.BestSeed = r.Seed
		}
	}

	if len(finalMeans) > 0 {
		summary.MeanGenerations = stat.Mean(generations, nil)
		summary.MeanFinalMean = stat.Mean(finalMeans, nil)
	}
	if len(finalMeans) > 1 {
		summary.StdFinalMean = stat.StdDev(finalMeans, nil)
	}
	return summary
}
