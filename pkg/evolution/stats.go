package evolution

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Evaluation is a population scored once by a fitness function
type Evaluation[E any] struct {
	Entities []E
	Scores   []float64
	Ordering Ordering
}

// Stats summarises the fitness of one generation
type Stats struct {
	Size   int
	Best   float64
	Worst  float64
	Mean   float64
	StdDev float64
}

// Evaluate scores every entity of population exactly once.
func Evaluate[E any](population []E, fitness FitnessFunc[E], ordering Ordering) *Evaluation[E] {
	scores := make([]float64, len(population))
	for i, entity := range population {
		scores[i] = fitness(entity)
	}
	return &Evaluation[E]{
		Entities: population,
		Scores:   scores,
		Ordering: ordering,
	}
}

// Stats computes best, worst, mean and standard deviation of the scores
func (e *Evaluation[E]) Stats() Stats {
	if len(e.Scores) == 0 {
		return Stats{}
	}

	s := Stats{
		Size: len(e.Scores),
		Mean: stat.Mean(e.Scores, nil),
	}
	if len(e.Scores) > 1 {
		s.StdDev = stat.StdDev(e.Scores, nil)
	}

	if e.Ordering == HigherIsBetter {
		s.Best, s.Worst = floats.Max(e.Scores), floats.Min(e.Scores)
	} else {
		s.Best, s.Worst = floats.Min(e.Scores), floats.Max(e.Scores)
	}
	return s
}

// BestIndex returns the slot of the best-scoring entity, or -1 when empty.
func (e *Evaluation[E]) BestIndex() int {
	if len(e.Scores) == 0 {
		return -1
	}
	if e.Ordering == HigherIsBetter {
		return floats.MaxIdx(e.Scores)
	}
	return floats.MinIdx(e.Scores)
}

// Best returns the best-scoring entity and its score
func (e *Evaluation[E]) Best() (E, float64, bool) {
	idx := e.BestIndex()
	if idx < 0 {
		var zero E
		return zero, 0, false
	}
	return e.Entities[idx], e.Scores[idx], true
}

// Ranked returns slot indices sorted best first.
func (e *Evaluation[E]) Ranked() []int {
	idx := make([]int, len(e.Scores))
	if len(idx) == 0 {
		return idx
	}
	// floats.Argsort sorts ascending in place, so work on a copy.
	scores := append([]float64(nil), e.Scores...)
	floats.Argsort(scores, idx)
	if e.Ordering == HigherIsBetter {
		for i, j := 0, len(idx)-1; i < j; i, j = i+1, j-1 {
			idx[i], idx[j] = idx[j], idx[i]
		}
	}
	return idx
}
