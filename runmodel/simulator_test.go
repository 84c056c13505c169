package runmodel_test

import (
	"testing"

	"callcenter-sim/runmodel"

	"github.com/stretchr/testify/assert"
)

func TestPartition(t *testing.T) {
	tests := map[string]struct {
		days     int
		threads  int
		expected []runmodel.DayRange
	}{
		"Even": {
			days:     12,
			threads:  4,
			expected: []runmodel.DayRange{{First: 0, Count: 3}, {First: 3, Count: 3}, {First: 6, Count: 3}, {First: 9, Count: 3}},
		},
		"Remainder": {
			days:     7,
			threads:  3,
			expected: []runmodel.DayRange{{First: 0, Count: 3}, {First: 3, Count: 2}, {First: 5, Count: 2}},
		},
		"FewerDaysThanThreads": {
			days:     2,
			threads:  8,
			expected: []runmodel.DayRange{{First: 0, Count: 1}, {First: 1, Count: 1}},
		},
		"NoThreads": {
			days:     5,
			threads:  0,
			expected: []runmodel.DayRange{{First: 0, Count: 5}},
		},
		"NoDays": {
			days:     0,
			threads:  4,
			expected: []runmodel.DayRange{{First: 0, Count: 0}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := runmodel.Partition(tt.days, tt.threads)
			assert.Equal(t, tt.expected, got)

			total := 0
			for _, r := range got {
				total += r.Count
			}
			assert.Equal(t, tt.days, total)
		})
	}
}
