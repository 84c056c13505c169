package runmodel

// Choice is a weighted choice over caller types. Targets and Probabilities
// are parallel; the probabilities sum to 1 unless the choice is empty.
// Pick runs in constant time using an alias table.
type Choice struct {
	Targets       []int
	Probabilities []float64

	alias  []int
	cutoff []float64
}

func newChoice(targets []int, probabilities []float64) Choice {
	n := len(targets)
	c := Choice{
		Targets:       targets,
		Probabilities: probabilities,
		alias:         make([]int, n),
		cutoff:        make([]float64, n),
	}
	if n == 0 {
		return c
	}

	// Vose's alias method.
	scaled := make([]float64, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, p := range probabilities {
		scaled[i] = p * float64(n)
		if scaled[i] < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}
	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		c.cutoff[s] = scaled[s]
		c.alias[s] = l
		scaled[l] = scaled[l] + scaled[s] - 1
		if scaled[l] < 1 {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}
	// Leftovers are 1 up to rounding.
	for _, i := range large {
		c.cutoff[i] = 1
		c.alias[i] = i
	}
	for _, i := range small {
		c.cutoff[i] = 1
		c.alias[i] = i
	}
	return c
}

// Empty reports whether the choice has no targets.
func (c Choice) Empty() bool {
	return len(c.Targets) == 0
}

// Pick maps a uniform random number u in [0,1) to a target caller index.
// It returns -1 for an empty choice.
func (c Choice) Pick(u float64) int {
	n := len(c.Targets)
	if n == 0 {
		return -1
	}
	x := u * float64(n)
	i := int(x)
	if i >= n {
		i = n - 1
	}
	if x-float64(i) < c.cutoff[i] {
		return c.Targets[i]
	}
	return c.Targets[c.alias[i]]
}

// Transition is a probabilistic step to another caller type, such as a
// retry or a forwarding. An empty Next keeps the current caller type.
type Transition struct {
	Probability float64
	Next        Choice
}

// Active reports whether the transition can happen at all.
func (t Transition) Active() bool {
	return t.Probability > 0
}
