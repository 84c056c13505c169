package runmodel

import (
	"sort"
	"strings"

	"callcenter-sim/distribution"
	"callcenter-sim/errors"
	"callcenter-sim/expr"
	"callcenter-sim/models"
)

// SkillLevel is a resolved skill level. The slices are parallel and hold one
// entry per served caller type; every per-interval table has one value per
// half hour, overrides already merged with the base definition.
type SkillLevel struct {
	Index int
	Name  string

	Callers             []int
	Scores              []int
	ServiceTimes        [][models.HalfHours]distribution.Distribution
	PostProcessingTimes [][models.HalfHours]distribution.Distribution
	// AddOns holds the service time add-on in the variable "w" (the service
	// time drawn); nil means no add-on.
	AddOns [][models.HalfHours]*expr.Expression

	// position maps a caller index to its entry, -1 if not served.
	position []int
}

// Position returns the entry of a caller type in the parallel slices, or -1
// if the skill level does not serve it.
func (s *SkillLevel) Position(caller int) int {
	if caller < 0 || caller >= len(s.position) {
		return -1
	}
	return s.position[caller]
}

// Serves reports whether agents with this skill level take calls of the
// caller type.
func (s *SkillLevel) Serves(caller int) bool {
	return s.Position(caller) >= 0
}

// ServiceTime returns the service time distribution of a caller type in a
// half-hour interval, nil if not served.
func (s *SkillLevel) ServiceTime(caller, interval int) distribution.Distribution {
	p := s.Position(caller)
	if p < 0 {
		return nil
	}
	return s.ServiceTimes[p][interval]
}

// PostProcessingTime returns the post-processing time distribution of a
// caller type in a half-hour interval, nil if not served.
func (s *SkillLevel) PostProcessingTime(caller, interval int) distribution.Distribution {
	p := s.Position(caller)
	if p < 0 {
		return nil
	}
	return s.PostProcessingTimes[p][interval]
}

func (r *resolver) resolveSkills() *errors.ModelError {
	skills := r.d.model.SkillLevels
	if len(skills) == 0 {
		return r.fail(errors.ErrStructural, "check.skills.none")
	}

	r.rm.Skills = make([]SkillLevel, 0, len(skills))
	for i, s := range skills {
		if strings.TrimSpace(s.Name) == "" {
			return r.fail(errors.ErrStructural, "check.skills.no_name")
		}
		key := fold(s.Name)
		if _, ok := r.skillIndex[key]; ok {
			return r.fail(errors.ErrStructural, "check.skills.duplicate", s.Name)
		}
		r.skillIndex[key] = i

		resolved, err := r.resolveSkill(i, s)
		if err != nil {
			return err
		}
		r.rm.Skills = append(r.rm.Skills, resolved)
	}
	return nil
}

func (r *resolver) resolveSkill(index int, s models.SkillLevel) (SkillLevel, *errors.ModelError) {
	out := SkillLevel{
		Index:    index,
		Name:     s.Name,
		position: make([]int, len(r.d.callers)),
	}
	for i := range out.position {
		out.position[i] = -1
	}

	for _, sc := range s.Callers {
		caller, ok := r.lookupCaller(sc.Caller)
		if !ok {
			// References to disabled caller types are expected when a caller
			// type is switched off temporarily.
			if r.opts.Strict && !r.disabled[fold(sc.Caller)] {
				return out, r.fail(errors.ErrReferential, "check.skills.unknown_caller", s.Name, sc.Caller)
			}
			continue
		}
		if out.position[caller] >= 0 {
			return out, r.fail(errors.ErrStructural, "check.skills.duplicate_caller", s.Name, sc.Caller)
		}

		service, err := r.skillTable(s.Name, sc, sc.ServiceTime, sc.IntervalServiceTime, "service_time", false)
		if err != nil {
			return out, err
		}
		post, err := r.skillTable(s.Name, sc, sc.PostProcessingTime, sc.IntervalPostProcessingTime, "post_processing_time", true)
		if err != nil {
			return out, err
		}
		addOn, err := r.addOnTable(s.Name, sc)
		if err != nil {
			return out, err
		}

		out.position[caller] = len(out.Callers)
		out.Callers = append(out.Callers, caller)
		out.Scores = append(out.Scores, sc.Score)
		out.ServiceTimes = append(out.ServiceTimes, service)
		out.PostProcessingTimes = append(out.PostProcessingTimes, post)
		out.AddOns = append(out.AddOns, addOn)
	}
	return out, nil
}

// skillTable parses a base distribution and its interval overrides into a
// table with one entry per half hour. An empty optional base is zero.
func (r *resolver) skillTable(skill string, sc models.SkillCaller, base string, overrides map[int]string, what string, optional bool) ([models.HalfHours]distribution.Distribution, *errors.ModelError) {
	var table [models.HalfHours]distribution.Distribution

	parse := func(text string) (distribution.Distribution, *errors.ModelError) {
		if optional && strings.TrimSpace(text) == "" {
			return distribution.Constant(0), nil
		}
		d, err := distribution.Parse(text)
		if err != nil {
			return nil, r.fail(errors.ErrStructural, "check.skills.distribution", skill, sc.Caller, r.word(what), text)
		}
		return d, nil
	}

	d, err := parse(base)
	if err != nil {
		return table, err
	}
	for i := range table {
		table[i] = d
	}
	for _, interval := range sortedIntervals(overrides) {
		if interval < 0 || interval >= models.HalfHours {
			return table, r.fail(errors.ErrStructural, "check.skills.interval", skill, sc.Caller, interval)
		}
		if table[interval], err = parse(overrides[interval]); err != nil {
			return table, err
		}
	}
	return table, nil
}

// addOnTable compiles the service time add-on expressions. Blank texts and
// expressions that are constantly zero mean no add-on.
func (r *resolver) addOnTable(skill string, sc models.SkillCaller) ([models.HalfHours]*expr.Expression, *errors.ModelError) {
	var table [models.HalfHours]*expr.Expression

	compile := func(text string) (*expr.Expression, *errors.ModelError) {
		if strings.TrimSpace(text) == "" {
			return nil, nil
		}
		e, err := expr.Compile(text, "w")
		if err != nil {
			return nil, r.fail(errors.ErrStructural, "check.skills.add_on", skill, sc.Caller, text)
		}
		if v, ok := e.Constant(); ok && v == 0 {
			return nil, nil
		}
		return e, nil
	}

	base, err := compile(sc.ServiceTimeAddOn)
	if err != nil {
		return table, err
	}
	for i := range table {
		table[i] = base
	}
	for _, interval := range sortedIntervals(sc.IntervalServiceTimeAddOn) {
		if interval < 0 || interval >= models.HalfHours {
			return table, r.fail(errors.ErrStructural, "check.skills.interval", skill, sc.Caller, interval)
		}
		if table[interval], err = compile(sc.IntervalServiceTimeAddOn[interval]); err != nil {
			return table, err
		}
	}
	return table, nil
}

func sortedIntervals(overrides map[int]string) []int {
	keys := make([]int, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
