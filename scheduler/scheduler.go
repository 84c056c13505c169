package scheduler

import (
	"math"

	"callcenter-sim/models"
)

// Shift is a block of agents working the same fixed times. Start and End
// are seconds after midnight; OpenEnd means the agents keep working past
// End until their last call is done.
type Shift struct {
	Start   int  `json:"start" csv:"start"`
	End     int  `json:"end" csv:"end"`
	OpenEnd bool `json:"open_end" csv:"open_end"`
	Count   int  `json:"count" csv:"count"`
}

// Duration returns the shift length in seconds.
func (s Shift) Duration() int {
	return s.End - s.Start
}

// ScaleShiftLength converts a shift length in half hours to intervals of a
// curve with the given number of intervals.
func ScaleShiftLength(halfHours, intervals int) int {
	return int(math.Round(float64(halfHours) * float64(intervals) / models.HalfHours))
}

// ApplyEfficiency returns a copy of curve with every interval multiplied by
// the half-hour efficiency value it falls into. A nil efficiency curve
// leaves the values unchanged.
func ApplyEfficiency(curve []float64, efficiency models.Curve) []float64 {
	out := make([]float64, len(curve))
	for i, v := range curve {
		out[i] = v * efficiency.At48(i, len(curve))
	}
	return out
}

// Synthesize turns a staffing curve into fixed shifts. preferred and minimum
// are shift lengths in curve intervals.
//
// The sweep keeps one start time per working agent, oldest first. When the
// demand drops, the oldest agents go home, but only once they worked at
// least the minimum length. Agents that reached the preferred length always
// go home, and new agents start whenever the demand exceeds the number
// working. Everybody still working at the end of the day goes home at
// midnight, open ended if lastOpenEnd is set.
//
// The result is ordered by end time. Consecutive shifts with the same times
// are merged, and shifts ending at midnight are moved to start earlier if
// they would otherwise be shorter than the minimum. The input is not
// modified.
func Synthesize(curve []float64, preferred, minimum int, lastOpenEnd bool) []Shift {
	n := len(curve)
	if n == 0 {
		return nil
	}
	interval := models.SecondsPerDay / n
	if preferred < 1 {
		preferred = 1
	}
	minimum = max(0, min(minimum, preferred))

	// Pre-size for the common case of a few shifts per interval.
	shifts := make([]Shift, 0, n)
	working := make([]int, 0, n)

	closeOldest := func(end int, openEnd bool) {
		shifts = append(shifts, Shift{Start: working[0] * interval, End: end * interval, OpenEnd: openEnd, Count: 1})
		working = working[1:]
	}

	for i, v := range curve {
		c := int(math.Round(math.Max(0, v)))

		// Demand dropped: send home the agents that worked long enough.
		for c < len(working) && working[0]+minimum <= i {
			closeOldest(i, false)
		}

		// Forced end at the preferred length.
		for len(working) > 0 && i-working[0] >= preferred {
			closeOldest(i, false)
		}

		for len(working) < c {
			working = append(working, i)
		}
	}

	for len(working) > 0 {
		closeOldest(n, lastOpenEnd)
	}

	merged := shifts[:0]
	for _, s := range shifts {
		if last := len(merged) - 1; last >= 0 && merged[last].Start == s.Start && merged[last].End == s.End && merged[last].OpenEnd == s.OpenEnd {
			merged[last].Count++
			continue
		}
		merged = append(merged, s)
	}

	minSeconds := minimum * interval
	for i := range merged {
		if merged[i].End == models.SecondsPerDay && merged[i].Duration() < minSeconds {
			merged[i].Start = models.SecondsPerDay - minSeconds
		}
	}
	return merged
}

// TotalAgentSeconds sums duration times headcount over all shifts.
func TotalAgentSeconds(shifts []Shift) int {
	total := 0
	for _, s := range shifts {
		total += s.Duration() * s.Count
	}
	return total
}

// Headcount returns the number of agents working in each interval of a day
// split into n intervals, the inverse view of Synthesize.
func Headcount(shifts []Shift, n int) []int {
	out := make([]int, n)
	if n == 0 {
		return out
	}
	interval := models.SecondsPerDay / n
	for _, s := range shifts {
		for i := s.Start / interval; i < n && i*interval < s.End; i++ {
			out[i] += s.Count
		}
	}
	return out
}
