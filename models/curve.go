package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SecondsPerDay is the length of a simulated day.
const SecondsPerDay = 86400

// HalfHours is the number of half hours in a day, the base resolution for
// efficiency curves and interval overrides.
const HalfHours = 48

// Curve is a per-interval value list over one day with 24, 48 or 96
// entries.
type Curve []float64

// Valid reports whether the curve has one of the supported resolutions.
func (c Curve) Valid() bool {
	switch len(c) {
	case 24, 48, 96:
		return true
	}
	return false
}

// Sum returns the sum of all values.
func (c Curve) Sum() float64 {
	if len(c) == 0 {
		return 0
	}
	return floats.Sum(c)
}

// IntervalSeconds returns the length of one interval.
func (c Curve) IntervalSeconds() int {
	if len(c) == 0 {
		return 0
	}
	return SecondsPerDay / len(c)
}

// To48 converts the curve to half-hour resolution while keeping its sum:
// hourly values are split in halves, quarter-hour values summed in pairs.
func (c Curve) To48() Curve {
	out := make(Curve, HalfHours)
	switch len(c) {
	case 24:
		for i, v := range c {
			out[2*i] = v / 2
			out[2*i+1] = v / 2
		}
	case 48:
		copy(out, c)
	case 96:
		for i := range out {
			out[i] = c[2*i] + c[2*i+1]
		}
	}
	return out
}

// Normalized returns a copy scaled to sum 1. A curve summing to zero is
// returned as a zero copy.
func (c Curve) Normalized() Curve {
	out := make(Curve, len(c))
	copy(out, c)
	sum := c.Sum()
	if sum == 0 {
		return out
	}
	floats.Scale(1/sum, out)
	return out
}

// At48 returns the value of a half-hour curve for interval i of a curve with
// n intervals. A nil curve is 1 everywhere.
func (c Curve) At48(i, n int) float64 {
	if len(c) == 0 {
		return 1
	}
	idx := int(math.Floor(float64(i) / float64(n) * HalfHours))
	if idx >= len(c) {
		idx = len(c) - 1
	}
	return c[idx]
}
