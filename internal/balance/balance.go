// Package balance searches for CPU counts that distribute a fixed number of
// gridcells across whole nodes with as few idle CPUs as possible.
package balance

import (
	"fmt"
	"sort"
)

// DefaultMaxMultiplier is the number of node multiples considered when the
// caller has no better bound.
const DefaultMaxMultiplier = 10

// Candidate is a CPU count together with the number of CPUs left idle at
// the end of the job.
type Candidate struct {
	CPUs      int
	Imbalance int
}

// Imbalance returns the number of CPUs left idle during the final round of
// work when n gridcells are shared between cpus CPUs. An exact multiple
// yields cpus, not zero.
func Imbalance(n, cpus int) int {
	return cpus - (n % cpus)
}

// Efficiency returns the percentage of CPUs effectively utilised.
func Efficiency(n, imbalance int) float64 {
	return float64(n-imbalance) / float64(n) * 100
}

// MaxMultiplier returns ceil(n/m), the largest multiple of m that does not
// allocate more than one CPU per gridcell.
func MaxMultiplier(n, m int) int {
	return (n + m - 1) / m
}

// FindOptimal evaluates every multiple k*m for k in [1, maxMultiplier] and
// returns the candidates sorted by imbalance, then by CPU count.
func FindOptimal(n, m, maxMultiplier int) ([]Candidate, error) {
	if n <= 0 {
		return nil, fmt.Errorf("number of gridcells must be positive, got %d", n)
	}
	if m <= 0 {
		return nil, fmt.Errorf("node size must be positive, got %d", m)
	}
	if maxMultiplier <= 0 {
		return nil, fmt.Errorf("max multiplier must be positive, got %d", maxMultiplier)
	}
	results := make([]Candidate, 0, maxMultiplier)
	for k := 1; k <= maxMultiplier; k++ {
		cpus := k * m
		results = append(results, Candidate{CPUs: cpus, Imbalance: Imbalance(n, cpus)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Imbalance != results[j].Imbalance {
			return results[i].Imbalance < results[j].Imbalance
		}
		return results[i].CPUs < results[j].CPUs
	})
	return results, nil
}
