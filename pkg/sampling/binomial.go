package sampling

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
)

// Binomial draws a count from Binomial(n, p).
//
// Each of n independent Bernoulli(p) trials contributes at most one to the
// count, so the result is always in [0, n].
func Binomial(n int, p float64, rng *rand.Rand) (int, error) {
	if n < 0 {
		return 0, evoerrors.NewInvalidInputError("sampling", "Binomial", "trial count must not be negative").
			WithContext("n", n)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, evoerrors.NewInvalidInputError("sampling", "Binomial", "probability must be in [0, 1]").
			WithContext("p", p)
	}

	switch {
	case n == 0 || p == 0:
		return 0, nil
	case p == 1:
		return n, nil
	}

	dist := distuv.Binomial{N: float64(n), P: p, Src: rng}
	k := int(math.Round(dist.Rand()))
	if k < 0 {
		k = 0
	} else if k > n {
		k = n
	}
	return k, nil
}

// PositiveBinomial draws from Binomial(n, p) and redraws while the result is
// zero, so at least one trial always succeeds. The expected count is
// np / (1 - (1-p)^n) rather than np.
//
// Like DerangedIndices the loop terminates with probability 1 and has no
// bound; use PositiveBinomialWithLimit when one is needed.
func PositiveBinomial(n int, p float64, rng *rand.Rand) (int, error) {
	return PositiveBinomialWithLimit(n, p, rng, Unlimited)
}

// PositiveBinomialWithLimit is PositiveBinomial with at most maxAttempts
// draws. maxAttempts <= 0 means no limit.
func PositiveBinomialWithLimit(n int, p float64, rng *rand.Rand, maxAttempts int) (int, error) {
	if n < 1 || p <= 0 {
		return 0, evoerrors.NewInvalidInputError("sampling", "PositiveBinomial", "a positive count needs n >= 1 and p > 0").
			WithContext("n", n).
			WithContext("p", p)
	}

	for attempt := 1; maxAttempts <= 0 || attempt <= maxAttempts; attempt++ {
		k, err := Binomial(n, p, rng)
		if err != nil {
			return 0, err
		}
		if k > 0 {
			return k, nil
		}
	}

	return 0, evoerrors.NewRetryExhaustedError("sampling", "PositiveBinomial", maxAttempts).
		WithContext("n", n).
		WithContext("p", p)
}

// WithoutReplacement returns k distinct indices drawn uniformly from 0..n-1.
func WithoutReplacement(n, k int, rng *rand.Rand) ([]int, error) {
	if k < 0 || k > n {
		return nil, evoerrors.NewInvalidInputError("sampling", "WithoutReplacement", "sample size must be in [0, n]").
			WithContext("n", n).
			WithContext("k", k)
	}
	if k == 0 {
		return []int{}, nil
	}
	return rng.Perm(n)[:k], nil
}
