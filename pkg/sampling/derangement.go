package sampling

import (
	"math/rand/v2"

	evoerrors "github.com/ducminhle1904/evolvers/internal/errors"
)

// Unlimited disables the attempt cap of the retrying primitives.
const Unlimited = 0

// DerangedIndices returns a permutation p of 0..n-1 with p[i] != i for every i.
//
// Shuffles are redrawn until one has no fixed point, which takes e attempts
// on average. The loop terminates with probability 1 but has no upper bound;
// use DerangedIndicesWithLimit when a bound is required.
func DerangedIndices(n int, rng *rand.Rand) ([]int, error) {
	return DerangedIndicesWithLimit(n, rng, Unlimited)
}

// DerangedIndicesWithLimit is DerangedIndices with at most maxAttempts
// shuffles. maxAttempts <= 0 means no limit.
func DerangedIndicesWithLimit(n int, rng *rand.Rand, maxAttempts int) ([]int, error) {
	if n < 2 {
		return nil, evoerrors.NewInvalidInputError("sampling", "Derange", "a derangement needs at least 2 items").
			WithContext("length", n)
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	for attempt := 1; maxAttempts <= 0 || attempt <= maxAttempts; attempt++ {
		rng.Shuffle(n, func(i, j int) {
			perm[i], perm[j] = perm[j], perm[i]
		})
		if !hasFixedPoint(perm) {
			return perm, nil
		}
	}

	return nil, evoerrors.NewRetryExhaustedError("sampling", "Derange", maxAttempts).
		WithContext("length", n)
}

// Derange returns a new slice holding the items of items in an order where no
// position holds the item it had. Items are compared with ==, so for pointer
// entities an instance stored at several positions lands on none of them.
// items is never modified.
//
// A derangement exists only while no item fills more than half of the
// positions; such input is rejected instead of being retried forever.
func Derange[T comparable](items []T, rng *rand.Rand) ([]T, error) {
	return DerangeWithLimit(items, rng, Unlimited)
}

// DerangeWithLimit is Derange with at most maxAttempts shuffles.
func DerangeWithLimit[T comparable](items []T, rng *rand.Rand, maxAttempts int) ([]T, error) {
	n := len(items)
	if n < 2 {
		return nil, evoerrors.NewInvalidInputError("sampling", "Derange", "a derangement needs at least 2 items").
			WithContext("length", n)
	}

	counts := make(map[T]int, n)
	for _, item := range items {
		counts[item]++
		if counts[item]*2 > n {
			return nil, evoerrors.NewInvalidInputError("sampling", "Derange", "an item fills more than half of the positions").
				WithContext("length", n).
				WithContext("occurrences", counts[item])
		}
	}

	deranged := make([]T, n)
	copy(deranged, items)

	for attempt := 1; maxAttempts <= 0 || attempt <= maxAttempts; attempt++ {
		rng.Shuffle(n, func(i, j int) {
			deranged[i], deranged[j] = deranged[j], deranged[i]
		})
		if !keepsAnyItem(items, deranged) {
			return deranged, nil
		}
	}

	return nil, evoerrors.NewRetryExhaustedError("sampling", "Derange", maxAttempts).
		WithContext("length", n)
}

func hasFixedPoint(perm []int) bool {
	for i, v := range perm {
		if i == v {
			return true
		}
	}
	return false
}

func keepsAnyItem[T comparable](before, after []T) bool {
	for i := range before {
		if before[i] == after[i] {
			return true
		}
	}
	return false
}
