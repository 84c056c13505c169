package models

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of the model. The copy shares no slices or maps
// with m, so either side may be edited without affecting the other.
func (m *Model) Clone() *Model {
	if m == nil {
		return nil
	}
	out := *m
	out.Efficiency = slices.Clone(m.Efficiency)
	out.Addition = slices.Clone(m.Addition)

	out.Callers = cloneEach(m.Callers, func(c CallerType) CallerType {
		c.FreshCalls = slices.Clone(c.FreshCalls)
		c.Retry.AfterBlockedFirst = slices.Clone(c.Retry.AfterBlockedFirst)
		c.Retry.AfterBlocked = slices.Clone(c.Retry.AfterBlocked)
		c.Retry.AfterGiveUpFirst = slices.Clone(c.Retry.AfterGiveUpFirst)
		c.Retry.AfterGiveUp = slices.Clone(c.Retry.AfterGiveUp)
		c.Forward = c.Forward.clone()
		c.Recall = c.Recall.clone()
		return c
	})

	out.SkillLevels = cloneEach(m.SkillLevels, func(s SkillLevel) SkillLevel {
		s.Callers = cloneEach(s.Callers, func(sc SkillCaller) SkillCaller {
			sc.IntervalServiceTime = maps.Clone(sc.IntervalServiceTime)
			sc.IntervalServiceTimeAddOn = maps.Clone(sc.IntervalServiceTimeAddOn)
			sc.IntervalPostProcessingTime = maps.Clone(sc.IntervalPostProcessingTime)
			return sc
		})
		return s
	})

	out.Callcenters = cloneEach(m.Callcenters, func(cc Callcenter) Callcenter {
		cc.MinWaitingTimes = slices.Clone(cc.MinWaitingTimes)
		cc.Efficiency = slices.Clone(cc.Efficiency)
		cc.Addition = slices.Clone(cc.Addition)
		cc.Agents = cloneEach(cc.Agents, func(g AgentGroup) AgentGroup {
			g.Staffing = slices.Clone(g.Staffing)
			g.ByCallers = slices.Clone(g.ByCallers)
			g.Costs = slices.Clone(g.Costs)
			g.Efficiency = slices.Clone(g.Efficiency)
			g.Addition = slices.Clone(g.Addition)
			return g
		})
		return cc
	})
	return &out
}

func (r Redirect) clone() Redirect {
	r.Targets = slices.Clone(r.Targets)
	r.BySkillLevel = cloneEach(r.BySkillLevel, func(sr SkillRedirect) SkillRedirect {
		sr.Targets = slices.Clone(sr.Targets)
		return sr
	})
	return r
}

// cloneEach copies s element by element with fn. A nil slice stays nil.
func cloneEach[T any](s []T, fn func(T) T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, v := range s {
		out[i] = fn(v)
	}
	return out
}
