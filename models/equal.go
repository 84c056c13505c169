package models

import (
	"encoding/json"

	"github.com/cespare/xxhash/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// IncreaseDays rounds days up to the next multiple of threads so a run
// splits evenly over the worker pool.
func IncreaseDays(days, threads int) int {
	if threads <= 1 || days <= 0 {
		return days
	}
	if rest := days % threads; rest != 0 {
		days += threads - rest
	}
	return days
}

var equalOptions = cmp.Options{
	cmpopts.EquateEmpty(),
	cmpopts.IgnoreFields(Model{}, "Version", "Days"),
}

// Equal reports whether two models describe the same simulation. The
// format version is ignored, and day counts are equal when they round to
// the same value for the given thread count.
func (m *Model) Equal(other *Model, threads int) bool {
	if m == nil || other == nil {
		return m == other
	}
	if IncreaseDays(m.Days, threads) != IncreaseDays(other.Days, threads) {
		return false
	}
	return cmp.Equal(*m, *other, equalOptions)
}

// Diff describes the differences between two models, for logging.
func (m *Model) Diff(other *Model) string {
	return cmp.Diff(m, other, equalOptions)
}

// Fingerprint hashes the canonical JSON encoding of the model. Equal
// fingerprints mean the compiler would see the same input.
func Fingerprint(m *Model) uint64 {
	data, err := json.Marshal(m)
	if err != nil {
		return 0
	}
	return xxhash.Sum64(data)
}
