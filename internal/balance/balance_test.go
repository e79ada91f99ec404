package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOptimal(t *testing.T) {
	tests := map[string]struct {
		n, m, maxMultiplier int
		expected            []Candidate
	}{
		"ties broken by fewer cpus": {
			n: 1000, m: 48, maxMultiplier: 3,
			expected: []Candidate{{CPUs: 48, Imbalance: 8}, {CPUs: 144, Imbalance: 8}, {CPUs: 96, Imbalance: 56}},
		},
		"exact multiple reports a full idle set": {
			n: 96, m: 48, maxMultiplier: 2,
			expected: []Candidate{{CPUs: 48, Imbalance: 48}, {CPUs: 96, Imbalance: 96}},
		},
		"single cpu nodes": {
			n: 10, m: 1, maxMultiplier: 4,
			expected: []Candidate{
				{CPUs: 1, Imbalance: 1},
				{CPUs: 2, Imbalance: 2},
				{CPUs: 3, Imbalance: 2},
				{CPUs: 4, Imbalance: 2},
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := FindOptimal(tc.n, tc.m, tc.maxMultiplier)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFindOptimalInvariants(t *testing.T) {
	for _, n := range []int{1, 7, 48, 1000, 12345} {
		for _, m := range []int{1, 12, 28, 48, 104} {
			got, err := FindOptimal(n, m, DefaultMaxMultiplier)
			require.NoError(t, err)
			require.Len(t, got, DefaultMaxMultiplier)
			for i, c := range got {
				assert.Zero(t, c.CPUs%m)
				assert.Equal(t, c.CPUs-(n%c.CPUs), c.Imbalance)
				assert.GreaterOrEqual(t, c.Imbalance, 1)
				assert.LessOrEqual(t, c.Imbalance, c.CPUs)
				if i == 0 {
					continue
				}
				prev := got[i-1]
				assert.True(t, prev.Imbalance < c.Imbalance ||
					(prev.Imbalance == c.Imbalance && prev.CPUs < c.CPUs),
					"n=%d m=%d: %v before %v", n, m, prev, c)
			}
		}
	}
}

func TestFindOptimalRejectsInvalidInput(t *testing.T) {
	tests := map[string]struct{ n, m, k int }{
		"zero gridcells":     {0, 48, 1},
		"zero node size":     {10, 0, 1},
		"zero multiplier":    {10, 48, 0},
		"negative gridcells": {-1, 48, 1},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FindOptimal(tc.n, tc.m, tc.k)
			assert.Error(t, err)
		})
	}
}

func TestMaxMultiplier(t *testing.T) {
	assert.Equal(t, 21, MaxMultiplier(1000, 48))
	assert.Equal(t, 2, MaxMultiplier(96, 48))
	assert.Equal(t, 1, MaxMultiplier(1, 48))
}

func TestEfficiency(t *testing.T) {
	assert.InDelta(t, 99.2, Efficiency(1000, 8), 1e-9)
	assert.InDelta(t, 0.0, Efficiency(48, 48), 1e-9)
}
