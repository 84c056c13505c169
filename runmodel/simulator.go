package runmodel

// Simulator is the contract of a simulation engine running a compiled
// model. S is the engine's statistics type.
type Simulator[S any] interface {
	// IsRunning reports whether worker threads are still simulating days.
	IsRunning() bool
	// Start launches the workers. commandLine disables interactive progress
	// reporting.
	Start(commandLine bool)
	// Cancel stops the workers as soon as possible.
	Cancel()
	// FinalizeRun waits for the workers and merges their results.
	FinalizeRun() error
	// CollectStatistic returns the merged statistics after FinalizeRun.
	CollectStatistic() S
	// SimDayCount returns the number of days simulated so far.
	SimDayCount() int64
	// SimDaysCount returns the total number of days to simulate.
	SimDaysCount() int64
}

// DayRange is the share of simulated days of one worker.
type DayRange struct {
	First int
	Count int
}

// Partition splits days over threads workers. Days should already be
// rounded with SimDays so every worker gets the same count; any remainder
// goes to the first workers.
func Partition(days, threads int) []DayRange {
	if threads < 1 {
		threads = 1
	}
	if days < threads {
		threads = max(days, 1)
	}
	out := make([]DayRange, threads)
	base, rest := days/threads, days%threads
	first := 0
	for i := range out {
		n := base
		if i < rest {
			n++
		}
		out[i] = DayRange{First: first, Count: n}
		first += n
	}
	return out
}
