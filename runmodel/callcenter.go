package runmodel

import (
	"math"
	"strings"

	"callcenter-sim/errors"
	"callcenter-sim/models"
	"callcenter-sim/scheduler"
)

// Agent is a block of agents with identical fixed working times. Groups
// defined by a staffing curve or by caller arrivals turn into several agents
// entries, one per planned shift.
type Agent struct {
	// Group is the position of the defining agent group in its callcenter.
	Group   int
	Count   int
	Start   int
	End     int
	OpenEnd bool
	Skill   int

	CostPerHour float64
	// CostPerCall and CostPerMinute are indexed by caller; nil when the
	// group has no caller specific costs.
	CostPerCall   []float64
	CostPerMinute []float64

	// Efficiency and Addition are half-hour curves; nil means 1.
	Efficiency models.Curve
	Addition   models.Curve
}

func (a Agent) costsUsed() bool {
	if a.CostPerHour != 0 {
		return true
	}
	for i := range a.CostPerCall {
		if a.CostPerCall[i] != 0 || a.CostPerMinute[i] != 0 {
			return true
		}
	}
	return false
}

// Callcenter is a resolved callcenter.
type Callcenter struct {
	Name   string
	Agents []Agent

	TechnicalFreeTime              int
	TechnicalFreeTimeIsWaitingTime bool

	Score                           int
	AgentScoreFreeTimeSinceLastCall float64
	AgentScoreFreeTimePart          float64

	// MinWaitingTime holds the minimum waiting time in milliseconds before
	// a caller type is served here, indexed by caller.
	MinWaitingTime []int
}

// Shifts returns the planned shifts of the callcenter.
func (cc *Callcenter) Shifts() []scheduler.Shift {
	out := make([]scheduler.Shift, len(cc.Agents))
	for i, a := range cc.Agents {
		out[i] = scheduler.Shift{Start: a.Start, End: a.End, OpenEnd: a.OpenEnd, Count: a.Count}
	}
	return out
}

func (r *resolver) resolveCallcenters() *errors.ModelError {
	callcenters := r.d.callcenters
	if len(callcenters) == 0 {
		return r.fail(errors.ErrStructural, "check.callcenters.none")
	}

	seen := make(map[string]bool, len(callcenters))
	r.rm.Callcenters = make([]Callcenter, 0, len(callcenters))
	agents := 0
	for _, cc := range callcenters {
		if strings.TrimSpace(cc.Name) == "" {
			if r.opts.Strict {
				return r.fail(errors.ErrReferential, "check.callcenters.no_name")
			}
		} else {
			key := fold(cc.Name)
			if seen[key] {
				return r.fail(errors.ErrStructural, "check.callcenters.duplicate", cc.Name)
			}
			seen[key] = true
		}

		resolved, err := r.resolveCallcenter(cc)
		if err != nil {
			return err
		}
		for _, a := range resolved.Agents {
			agents += a.Count
		}
		r.rm.Callcenters = append(r.rm.Callcenters, resolved)
	}
	if agents == 0 {
		return r.fail(errors.ErrAggregate, "check.agents.none")
	}

	// Cost tables and arrival based groups are checked once all agents are
	// known.
	for _, cc := range callcenters {
		for j, g := range cc.Agents {
			if g.Disabled {
				continue
			}
			if r.opts.Strict {
				for _, cost := range g.Costs {
					if _, ok := r.lookupCaller(cost.Caller); !ok {
						return r.fail(errors.ErrReferential, "check.agents.cost_unknown_caller", cc.Name, j+1, cost.Caller)
					}
				}
			}
			if g.StaffingMode() == models.StaffingCallers {
				if err := r.checkByCallers(cc, j, g); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *resolver) resolveCallcenter(cc models.Callcenter) (Callcenter, *errors.ModelError) {
	out := Callcenter{
		Name:                            cc.Name,
		TechnicalFreeTime:               cc.TechnicalFreeTime,
		TechnicalFreeTimeIsWaitingTime:  cc.TechnicalFreeTimeIsWaitingTime,
		Score:                           cc.Score,
		AgentScoreFreeTimeSinceLastCall: cc.AgentScoreFreeTimeSinceLastCall,
		AgentScoreFreeTimePart:          cc.AgentScoreFreeTimePart,
		MinWaitingTime:                  make([]int, len(r.d.callers)),
	}
	if out.TechnicalFreeTime < 0 {
		if r.opts.Strict {
			return out, r.fail(errors.ErrReferential, "check.callcenters.technical_free_time", cc.Name)
		}
		out.TechnicalFreeTime = 0
	}
	for _, c := range []struct {
		curve models.Curve
		what  string
	}{{cc.Efficiency, "efficiency"}, {cc.Addition, "addition"}} {
		if len(c.curve) != 0 && len(c.curve) != models.HalfHours {
			return out, r.fail(errors.ErrStructural, "check.productivity_curve", r.word(c.what), cc.Name)
		}
	}

	for j, g := range cc.Agents {
		if g.Disabled {
			continue
		}
		agents, err := r.resolveAgentGroup(cc, j, g)
		if err != nil {
			return out, err
		}
		out.Agents = append(out.Agents, agents...)
	}

	for _, mw := range cc.MinWaitingTimes {
		caller, ok := r.lookupCaller(mw.Caller)
		if !ok {
			if r.opts.Strict && mw.Seconds > 0 {
				return out, r.fail(errors.ErrReferential, "check.callcenters.min_wait_unknown", cc.Name, mw.Caller)
			}
			continue
		}
		if mw.Seconds < 0 {
			if r.opts.Strict {
				return out, r.fail(errors.ErrReferential, "check.callcenters.min_wait_negative", cc.Name, mw.Seconds, mw.Caller)
			}
			continue
		}
		out.MinWaitingTime[caller] = mw.Seconds * 1000
	}
	return out, nil
}

// resolveAgentGroup binds an agent group to its skill level and plans its
// shifts.
func (r *resolver) resolveAgentGroup(cc models.Callcenter, group int, g models.AgentGroup) ([]Agent, *errors.ModelError) {
	skill, ok := r.lookupSkill(g.SkillLevel)
	if !ok {
		return nil, r.fail(errors.ErrStructural, "check.agents.unknown_skill", g.SkillLevel, group+1, cc.Name)
	}
	if (len(g.Efficiency) != 0 && len(g.Efficiency) != models.HalfHours) || (len(g.Addition) != 0 && len(g.Addition) != models.HalfHours) {
		return nil, r.fail(errors.ErrStructural, "check.agents.productivity_curve", group+1, cc.Name)
	}
	efficiency := firstCurve(g.Efficiency, cc.Efficiency, r.d.model.Efficiency)
	addition := firstCurve(g.Addition, cc.Addition, r.d.model.Addition)

	var shifts []scheduler.Shift
	switch g.StaffingMode() {
	case models.StaffingFixed:
		if g.Count < 0 {
			return nil, r.fail(errors.ErrStructural, "check.agents.count", g.Count, group+1, cc.Name)
		}
		if g.Start < 0 || g.Start > models.SecondsPerDay || g.End < 0 {
			return nil, r.fail(errors.ErrStructural, "check.agents.times", group+1, cc.Name)
		}
		if !g.OpenEnd && g.End < g.Start {
			return nil, r.fail(errors.ErrStructural, "check.agents.end_before_start", group+1, cc.Name)
		}
		if g.Count > 0 {
			shifts = []scheduler.Shift{{Start: g.Start, End: g.End, OpenEnd: g.OpenEnd, Count: g.Count}}
		}

	case models.StaffingCurve:
		if !g.Staffing.Valid() {
			return nil, r.fail(errors.ErrStructural, "check.agents.curve_size", group+1, cc.Name)
		}
		shifts = r.planShifts(g, g.Staffing, efficiency, g.LastShiftOpenEnd)

	case models.StaffingCallers:
		curves := make([][]float64, 0, len(g.ByCallers))
		rates := make([]float64, 0, len(g.ByCallers))
		for _, rt := range g.ByCallers {
			arrivals, ok := r.arrivals[fold(rt.Target)]
			if !ok || !arrivals.Valid() {
				continue
			}
			curves = append(curves, arrivals.To48())
			rates = append(rates, rt.Weight)
		}
		curve := scheduler.CurveFromCallers(curves, rates, g.ByCallersHalfHours)
		shifts = r.planShifts(g, curve, efficiency, g.LastShiftOpenEnd)

	default:
		return nil, r.fail(errors.ErrStructural, "check.agents.mode", string(g.Mode), group+1, cc.Name)
	}

	var perCall, perMinute []float64
	for _, cost := range g.Costs {
		caller, ok := r.lookupCaller(cost.Caller)
		if !ok {
			continue
		}
		if perCall == nil {
			perCall = make([]float64, len(r.d.callers))
			perMinute = make([]float64, len(r.d.callers))
		}
		perCall[caller] = cost.PerCall
		perMinute[caller] = cost.PerMinute
	}

	agents := make([]Agent, 0, len(shifts))
	for _, s := range shifts {
		agents = append(agents, Agent{
			Group:         group,
			Count:         s.Count,
			Start:         s.Start,
			End:           s.End,
			OpenEnd:       s.OpenEnd,
			Skill:         skill,
			CostPerHour:   g.CostPerHour,
			CostPerCall:   perCall,
			CostPerMinute: perMinute,
			Efficiency:    efficiency,
			Addition:      addition,
		})
	}
	return agents, nil
}

// planShifts applies the productivity curve to a staffing curve and turns
// it into shifts using the group's shift lengths.
func (r *resolver) planShifts(g models.AgentGroup, curve []float64, efficiency models.Curve, lastOpenEnd bool) []scheduler.Shift {
	preferred, minimum := r.shiftLengths(g)
	n := len(curve)
	return scheduler.Synthesize(
		scheduler.ApplyEfficiency(curve, efficiency),
		scheduler.ScaleShiftLength(preferred, n),
		scheduler.ScaleShiftLength(minimum, n),
		lastOpenEnd,
	)
}

// checkByCallers validates a group whose agents follow caller arrivals.
func (r *resolver) checkByCallers(cc models.Callcenter, group int, g models.AgentGroup) *errors.ModelError {
	if len(g.ByCallers) == 0 {
		return r.fail(errors.ErrStructural, "check.agents.by_callers_none", cc.Name, group+1)
	}
	if g.ByCallersHalfHours <= 0 {
		return r.fail(errors.ErrStructural, "check.agents.by_callers_budget", cc.Name, group+1)
	}

	weight := 0.0
	for _, rt := range g.ByCallers {
		if arrivals, ok := r.arrivals[fold(rt.Target)]; ok {
			weight += math.Max(0, rt.Weight) * arrivals.Sum()
		}
	}
	if weight == 0 {
		return nil
	}

	if r.opts.Strict {
		for _, rt := range g.ByCallers {
			if _, ok := r.arrivals[fold(rt.Target)]; !ok {
				return r.fail(errors.ErrReferential, "check.agents.by_callers_unknown", cc.Name, group+1, rt.Target)
			}
			if rt.Weight <= 0 {
				return r.fail(errors.ErrReferential, "check.agents.by_callers_rate", cc.Name, group+1, rt.Target)
			}
		}
	}
	return nil
}

func firstCurve(curves ...models.Curve) models.Curve {
	for _, c := range curves {
		if len(c) > 0 {
			return append(models.Curve(nil), c...)
		}
	}
	return nil
}
