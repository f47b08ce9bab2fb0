package evolution_test

import (
	"math/rand/v2"

	"github.com/ducminhle1904/evolvers/pkg/evolution"
)

func newTestRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, ^seed))
}

// tracer is a test entity that records which entities produced it.
type tracer struct {
	id       int
	score    float64
	mother   *tracer
	father   *tracer
	mutated  int
	lastGene int
}

func (t *tracer) ReproduceWith(other *tracer, _ *rand.Rand) (*tracer, error) {
	return &tracer{
		id:     -1,
		score:  (t.score + other.score) / 2,
		mother: t,
		father: other,
	}, nil
}

func (t *tracer) Mutate(fn evolution.MutationFunc[int], _ *rand.Rand) error {
	t.mutated++
	t.lastGene = fn(t.lastGene)
	return nil
}

func tracerScore(t *tracer) float64 {
	return t.score
}

func newTracers(scores ...float64) []*tracer {
	out := make([]*tracer, len(scores))
	for i, s := range scores {
		out[i] = &tracer{id: i, score: s}
	}
	return out
}

func rangeTracers(n int) []*tracer {
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = float64(i + 1)
	}
	return newTracers(scores...)
}
