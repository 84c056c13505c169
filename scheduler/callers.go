package scheduler

import (
	"math"
	"sort"

	"callcenter-sim/models"
)

// CurveFromCallers builds a half-hour staffing curve from caller arrivals.
// Each arrival curve (already at half-hour resolution) is weighted by its
// rate, negative rates count as zero, and the sum is scaled to budget agent
// half hours. Intervals are rounded down first; the remaining agents go to
// the intervals with the largest fractional parts, so the result sums to
// budget exactly. With no arrivals at all the curve is zero.
func CurveFromCallers(curves [][]float64, rates []float64, budget int) []float64 {
	combined := make([]float64, models.HalfHours)
	for i := 0; i < min(len(curves), len(rates)); i++ {
		w := math.Max(0, rates[i])
		if w == 0 {
			continue
		}
		for j := 0; j < min(len(curves[i]), models.HalfHours); j++ {
			combined[j] += math.Max(0, curves[i][j]) * w
		}
	}

	sum := models.Curve(combined).Sum()
	if sum <= 0 || budget <= 0 {
		return make([]float64, models.HalfHours)
	}

	type remainder struct {
		index    int
		fraction float64
	}
	result := make([]float64, models.HalfHours)
	remainders := make([]remainder, models.HalfHours)
	allocated := 0
	for i, v := range combined {
		scaled := v * float64(budget) / sum
		whole := math.Floor(scaled)
		result[i] = whole
		allocated += int(whole)
		remainders[i] = remainder{index: i, fraction: scaled - whole}
	}

	// Largest remainder first; ties go to the earlier interval.
	sort.SliceStable(remainders, func(i, j int) bool {
		return remainders[i].fraction > remainders[j].fraction
	})
	for k := 0; allocated < budget && k < len(remainders); k++ {
		result[remainders[k].index]++
		allocated++
	}
	return result
}
