// Package runmodel compiles a declarative call-center model into the
// immutable run model consumed by the simulator.
//
// Compilation has two steps. New takes a snapshot of the model without
// resolving anything; CheckAndInit then validates the snapshot in dependency
// order (global parameters, skill levels, caller types, callcenters,
// aggregate flags) and either returns a fully linked RunModel or the first
// violated constraint. All references between entities are resolved to
// indices into the RunModel slices, so the result can be shared by any
// number of simulation workers without locking.
package runmodel

import (
	"runtime"
	"time"

	"callcenter-sim/errors"
	"callcenter-sim/expr"
	"callcenter-sim/lang"
	"callcenter-sim/metrics"
	"callcenter-sim/models"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

// MaxFreshCalls is the largest number of fresh calls per simulated day.
const MaxFreshCalls = 4194304

// Options control a compilation.
type Options struct {
	// Strict rejects dangling references and out of range values instead of
	// repairing them.
	Strict bool
	// Threads is the configured maximum number of simulation threads; zero
	// or less means one per core.
	Threads int
	// Language selects the language of error and warning texts.
	Language string
}

// ThreadCount returns the number of simulation threads for a configured
// maximum: the maximum, capped at the number of cores.
func ThreadCount(maxThreads int) int {
	cores := runtime.NumCPU()
	if maxThreads <= 0 || maxThreads > cores {
		return cores
	}
	return maxThreads
}

// RunModel is a validated, fully resolved model. It must not be modified
// after CheckAndInit returned it.
type RunModel struct {
	Name string

	Callers     []Caller
	Skills      []SkillLevel
	Callcenters []Callcenter

	// MaxQueueLength is evaluated with the number of working agents.
	MaxQueueLength *expr.Expression
	Days           int

	// CallerMinWaitingTimeUsed is set when any callcenter delays serving a
	// caller type.
	CallerMinWaitingTimeUsed bool
	// AgentCostsUsed is set when any agent has a non-zero cost.
	AgentCostsUsed bool

	opts  Options
	model models.Model
	tr    *lang.Translator
}

// Draft is a snapshot of a declarative model waiting to be checked. Only
// active caller types, callcenters and agent groups take part.
type Draft struct {
	model models.Model
	opts  Options

	callers     []models.CallerType
	callcenters []models.Callcenter
}

// New takes a deep snapshot of m, so later edits to m affect neither the
// draft nor the run model built from it. Nothing is resolved or validated
// yet.
func New(m *models.Model) *Draft {
	d := &Draft{model: *m.Clone()}
	for _, c := range d.model.Callers {
		if !c.Disabled {
			d.callers = append(d.callers, c)
		}
	}
	for _, c := range d.model.Callcenters {
		if !c.Disabled {
			d.callcenters = append(d.callcenters, c)
		}
	}
	return d
}

// Compile is New followed by CheckAndInit.
func Compile(m *models.Model, opts Options) (*RunModel, error) {
	return New(m).CheckAndInit(opts)
}

// CheckAndInit validates the draft and builds the run model. It stops at the
// first violated constraint and returns it as *errors.ModelError.
func (d *Draft) CheckAndInit(opts Options) (*RunModel, error) {
	start := time.Now()
	d.opts = opts

	r := newResolver(d)
	rm, err := r.run()

	metrics.ObserveCompile(time.Since(start), errors.KindName(errOrNil(err)))
	if err != nil {
		metrics.ResetModelGauges()
		log.WithFields(log.Fields{
			"model":  d.model.Name,
			"strict": opts.Strict,
			"key":    err.Key,
		}).Debug("model rejected")
		return nil, err
	}

	metrics.ObserveRunModel(rm.TotalAgents(), rm.TotalFreshCalls(), rm.ShiftCount())
	log.WithFields(log.Fields{
		"model":      d.model.Name,
		"strict":     opts.Strict,
		"callers":    len(rm.Callers),
		"agents":     rm.TotalAgents(),
		"freshCalls": rm.TotalFreshCalls(),
		"duration":   time.Since(start),
	}).Debug("model compiled")
	return rm, nil
}

func errOrNil(err *errors.ModelError) error {
	if err == nil {
		return nil
	}
	return err
}

// TotalAgents returns the number of agents over all callcenters.
func (rm *RunModel) TotalAgents() int {
	total := 0
	for _, cc := range rm.Callcenters {
		for _, a := range cc.Agents {
			total += a.Count
		}
	}
	return total
}

// TotalFreshCalls returns the mean number of fresh calls per day.
func (rm *RunModel) TotalFreshCalls() int {
	total := 0
	for _, c := range rm.Callers {
		total += c.FreshCallsMean
	}
	return total
}

// ShiftCount returns the number of agent groups after shift planning.
func (rm *RunModel) ShiftCount() int {
	total := 0
	for _, cc := range rm.Callcenters {
		total += len(cc.Agents)
	}
	return total
}

// SimDays returns the number of days to simulate, rounded up so the run
// divides evenly over the simulation threads.
func (rm *RunModel) SimDays() int {
	return models.IncreaseDays(rm.Days, ThreadCount(rm.opts.Threads))
}

// Caller returns the caller type with the given name, ignoring case.
func (rm *RunModel) Caller(name string) (*Caller, bool) {
	key := fold(name)
	for i := range rm.Callers {
		if fold(rm.Callers[i].Name) == key {
			return &rm.Callers[i], true
		}
	}
	return nil, false
}

// Skill returns the skill level with the given name, ignoring case.
func (rm *RunModel) Skill(name string) (*SkillLevel, bool) {
	key := fold(name)
	for i := range rm.Skills {
		if fold(rm.Skills[i].Name) == key {
			return &rm.Skills[i], true
		}
	}
	return nil, false
}

// fold maps a name to its case-insensitive lookup key.
func fold(name string) string {
	return cases.Fold().String(name)
}

// resolver carries the state of one CheckAndInit call.
type resolver struct {
	d    *Draft
	tr   *lang.Translator
	rm   *RunModel
	opts Options

	callerIndex map[string]int
	skillIndex  map[string]int
	disabled    map[string]bool
	// arrivals holds the arrival curve of every caller type, disabled ones
	// included, for groups staffed by caller arrivals.
	arrivals map[string]models.Curve
}

func newResolver(d *Draft) *resolver {
	r := &resolver{
		d:           d,
		tr:          lang.For(d.opts.Language),
		opts:        d.opts,
		callerIndex: make(map[string]int, len(d.callers)),
		skillIndex:  make(map[string]int, len(d.model.SkillLevels)),
		disabled:    make(map[string]bool),
		arrivals:    make(map[string]models.Curve, len(d.model.Callers)),
	}
	// Indices follow the order of the active caller types; duplicates are
	// reported later and keep the first index.
	for i, c := range d.callers {
		key := fold(c.Name)
		if _, ok := r.callerIndex[key]; !ok {
			r.callerIndex[key] = i
		}
	}
	for _, c := range d.model.Callers {
		key := fold(c.Name)
		if c.Disabled {
			r.disabled[key] = true
		}
		if _, ok := r.arrivals[key]; !ok {
			r.arrivals[key] = c.FreshCalls
		}
	}
	return r
}

func (r *resolver) fail(kind error, key string, args ...any) *errors.ModelError {
	return &errors.ModelError{Kind: kind, Key: key, Args: args, Message: r.tr.T(key, args...)}
}

func (r *resolver) word(key string) string {
	return r.tr.T("words." + key)
}

func (r *resolver) lookupCaller(name string) (int, bool) {
	i, ok := r.callerIndex[fold(name)]
	return i, ok
}

func (r *resolver) lookupSkill(name string) (int, bool) {
	i, ok := r.skillIndex[fold(name)]
	return i, ok
}

func (r *resolver) run() (*RunModel, *errors.ModelError) {
	r.rm = &RunModel{
		Name:  r.d.model.Name,
		opts:  r.opts,
		model: r.d.model,
		tr:    r.tr,
	}

	phases := []func() *errors.ModelError{
		r.checkGlobals,
		r.resolveSkills,
		r.resolveCallers,
		r.resolveCallcenters,
		r.aggregateFlags,
	}
	for _, phase := range phases {
		if err := phase(); err != nil {
			return nil, err
		}
	}
	return r.rm, nil
}

// checkGlobals validates the day count, the queue length expression and the
// shift lengths.
func (r *resolver) checkGlobals() *errors.ModelError {
	m := &r.d.model
	if m.Days <= 0 {
		return r.fail(errors.ErrStructural, "check.days", m.Days)
	}
	r.rm.Days = m.Days

	queue, err := expr.Compile(m.MaxQueueLength, "a")
	if err == nil {
		var v float64
		if v, err = queue.Eval(1); err == nil && v < 0 {
			err = expr.ErrInvalid
		}
	}
	if err != nil {
		return r.fail(errors.ErrStructural, "check.queue_length", m.MaxQueueLength)
	}
	r.rm.MaxQueueLength = queue

	for _, c := range []struct {
		curve models.Curve
		what  string
	}{{m.Efficiency, "efficiency"}, {m.Addition, "addition"}} {
		if len(c.curve) != 0 && len(c.curve) != models.HalfHours {
			return r.fail(errors.ErrStructural, "check.productivity_curve", r.word(c.what), r.word("model"))
		}
	}

	if m.MinimumShiftLength > m.PreferredShiftLength {
		return r.fail(errors.ErrStructural, "check.shift_length")
	}
	for _, cc := range r.d.callcenters {
		for i, g := range cc.Agents {
			if g.Disabled || g.StaffingMode() == models.StaffingFixed {
				continue
			}
			preferred, minimum := r.shiftLengths(g)
			if minimum > preferred {
				return r.fail(errors.ErrStructural, "check.shift_length_group", i+1, cc.Name)
			}
		}
	}
	return nil
}

// shiftLengths returns the preferred and minimum shift length of a group in
// half hours.
func (r *resolver) shiftLengths(g models.AgentGroup) (int, int) {
	preferred, minimum := r.d.model.PreferredShiftLength, r.d.model.MinimumShiftLength
	if g.PreferredShiftLength > 0 {
		preferred = g.PreferredShiftLength
	}
	if g.MinimumShiftLength > 0 {
		minimum = g.MinimumShiftLength
	}
	return preferred, minimum
}

// aggregateFlags derives the model wide flags and the per caller recheck
// times. It runs last because it needs the resolved callcenters.
func (r *resolver) aggregateFlags() *errors.ModelError {
	rm := r.rm
	for _, cc := range rm.Callcenters {
		for _, a := range cc.Agents {
			if a.costsUsed() {
				rm.AgentCostsUsed = true
			}
		}
	}

	for i := range rm.Callers {
		for _, cc := range rm.Callcenters {
			if t := cc.MinWaitingTime[i]; t > 0 {
				rm.Callers[i].RecheckTimes = append(rm.Callers[i].RecheckTimes, t)
				rm.CallerMinWaitingTimeUsed = true
			}
		}
	}
	return nil
}
