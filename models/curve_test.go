package models_test

import (
	"testing"

	"callcenter-sim/models"

	"github.com/stretchr/testify/assert"
)

func TestCurve_Valid(t *testing.T) {
	for n, expected := range map[int]bool{0: false, 12: false, 24: true, 48: true, 96: true, 97: false} {
		assert.Equal(t, expected, make(models.Curve, n).Valid(), "length %d", n)
	}
}

func TestCurve_To48(t *testing.T) {
	tests := map[string]struct {
		curve    models.Curve
		expected []float64
	}{
		"Hourly": {
			curve: func() models.Curve {
				c := make(models.Curve, 24)
				c[0], c[23] = 4, 2
				return c
			}(),
			expected: func() []float64 {
				c := make([]float64, 48)
				c[0], c[1], c[46], c[47] = 2, 2, 1, 1
				return c
			}(),
		},
		"QuarterHourly": {
			curve: func() models.Curve {
				c := make(models.Curve, 96)
				c[0], c[1], c[95] = 1, 3, 5
				return c
			}(),
			expected: func() []float64 {
				c := make([]float64, 48)
				c[0], c[47] = 4, 5
				return c
			}(),
		},
		"Unsupported": {
			curve:    models.Curve{1, 2, 3},
			expected: make([]float64, 48),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := tt.curve.To48()
			assert.Equal(t, models.Curve(tt.expected), got)
			if tt.curve.Valid() {
				assert.InDelta(t, tt.curve.Sum(), got.Sum(), 1e-12)
			}
		})
	}
}

func TestCurve_Normalized(t *testing.T) {
	c := models.Curve{1, 3, 0, 4}
	n := c.Normalized()
	assert.Equal(t, models.Curve{0.125, 0.375, 0, 0.5}, n)
	assert.Equal(t, models.Curve{1, 3, 0, 4}, c)

	zero := models.Curve{0, 0}
	assert.Equal(t, models.Curve{0, 0}, zero.Normalized())
	assert.Equal(t, 0.0, models.Curve(nil).Sum())
}

func TestCurve_At48(t *testing.T) {
	c := make(models.Curve, 48)
	for i := range c {
		c[i] = float64(i)
	}

	assert.Equal(t, 1.0, models.Curve(nil).At48(7, 24))
	assert.Equal(t, 10.0, c.At48(5, 24))
	assert.Equal(t, 5.0, c.At48(10, 96))
	assert.Equal(t, 47.0, c.At48(47, 48))
}

func TestCurve_IntervalSeconds(t *testing.T) {
	assert.Equal(t, 3600, make(models.Curve, 24).IntervalSeconds())
	assert.Equal(t, 900, make(models.Curve, 96).IntervalSeconds())
	assert.Equal(t, 0, models.Curve(nil).IntervalSeconds())
}
