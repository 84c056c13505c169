package runmodel_test

import (
	"testing"

	"callcenter-sim/models"
	"callcenter-sim/runmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChoice_Empty(t *testing.T) {
	var c runmodel.Choice
	assert.True(t, c.Empty())
	assert.Equal(t, -1, c.Pick(0))
	assert.Equal(t, -1, c.Pick(0.99))
	assert.False(t, runmodel.Transition{Next: c}.Active())
}

func TestChoice_PickFrequencies(t *testing.T) {
	tests := map[string]struct {
		rates    []models.Rate
		expected map[int]int
	}{
		"OneToThree": {
			rates:    []models.Rate{{Target: "A", Weight: 1}, {Target: "B", Weight: 3}},
			expected: map[int]int{0: 2500, 1: 7500},
		},
		"SingleTarget": {
			rates:    []models.Rate{{Target: "B", Weight: 0.4}},
			expected: map[int]int{1: 10000},
		},
		"ZeroWeightNeverPicked": {
			rates:    []models.Rate{{Target: "A", Weight: 0}, {Target: "B", Weight: 1}, {Target: "C", Weight: 1}},
			expected: map[int]int{1: 5000, 2: 5000},
		},
		"Uneven": {
			rates:    []models.Rate{{Target: "A", Weight: 1}, {Target: "B", Weight: 1}, {Target: "C", Weight: 2}},
			expected: map[int]int{0: 2500, 1: 2500, 2: 5000},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := testModel()
			m.Callers = append(m.Callers, models.NewCallerType("C"))
			m.Callers[0].Forward.Targets = tt.rates

			rm, err := runmodel.Compile(&m, runmodel.Options{Strict: true})
			require.NoError(t, err)

			// Evenly spaced points stand in for uniform random numbers.
			const n = 10000
			counts := make(map[int]int)
			for k := 0; k < n; k++ {
				counts[rm.Callers[0].Forward.Next.Pick((float64(k)+0.5)/n)]++
			}
			for target, want := range tt.expected {
				assert.InDelta(t, want, counts[target], 2, "target %d", target)
			}
			for target := range counts {
				assert.Contains(t, tt.expected, target)
			}
		})
	}
}
