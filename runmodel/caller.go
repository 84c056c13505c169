package runmodel

import (
	"math"
	"strings"

	"callcenter-sim/distribution"
	"callcenter-sim/errors"
	"callcenter-sim/models"
)

// Caller is a resolved caller type. All caller and skill level references
// are indices into the RunModel slices.
type Caller struct {
	Index int
	Name  string

	FreshCallsMean   int
	FreshCallsStdDev float64
	// FreshCalls is the arrival curve scaled to sum 1.
	FreshCalls models.Curve

	ScoreBase           float64
	ScorePerMillisecond float64
	ScoreForwarded      float64
	BlocksLine          bool
	ServiceLevelSeconds int

	// Patience is nil for callers that never hang up.
	Patience   distribution.Distribution
	RetryTime  distribution.Distribution
	RecallTime distribution.Distribution

	RetryAfterBlockedFirst Transition
	RetryAfterBlocked      Transition
	RetryAfterGiveUpFirst  Transition
	RetryAfterGiveUp       Transition

	Forward Transition
	Recall  Transition

	Costs models.CallerCosts

	// RecheckTimes are the minimum waiting times in milliseconds after which
	// a waiting call is offered to the callcenters again.
	RecheckTimes []int

	// Per skill level index into skillTransitions, -1 for the global
	// transition.
	forwardBySkill   []int
	recallBySkill    []int
	skillTransitions []Transition
}

// ForwardAfter returns the forwarding step of a call served by an agent
// with the given skill level.
func (c *Caller) ForwardAfter(skill int) Transition {
	if skill >= 0 && skill < len(c.forwardBySkill) && c.forwardBySkill[skill] >= 0 {
		return c.skillTransitions[c.forwardBySkill[skill]]
	}
	return c.Forward
}

// RecallAfter returns the recall step of a call served by an agent with the
// given skill level.
func (c *Caller) RecallAfter(skill int) Transition {
	if skill >= 0 && skill < len(c.recallBySkill) && c.recallBySkill[skill] >= 0 {
		return c.skillTransitions[c.recallBySkill[skill]]
	}
	return c.Recall
}

func (r *resolver) resolveCallers() *errors.ModelError {
	callers := r.d.callers
	if len(callers) == 0 {
		return r.fail(errors.ErrStructural, "check.callers.none")
	}

	r.rm.Callers = make([]Caller, len(callers))
	freshCalls := 0
	for i, c := range callers {
		if strings.TrimSpace(c.Name) == "" {
			return r.fail(errors.ErrStructural, "check.callers.no_name")
		}
		if r.callerIndex[fold(c.Name)] != i {
			return r.fail(errors.ErrStructural, "check.callers.duplicate", c.Name)
		}

		resolved, err := r.resolveCaller(i, c)
		if err != nil {
			return err
		}
		freshCalls += resolved.FreshCallsMean

		if resolved.FreshCallsMean > 0 && resolved.FreshCalls.Sum() == 0 {
			return r.fail(errors.ErrStructural, "check.callers.no_distribution", c.Name)
		}
		if resolved.ServiceLevelSeconds <= 0 {
			return r.fail(errors.ErrStructural, "check.callers.service_level", c.Name, resolved.ServiceLevelSeconds)
		}
		if resolved.FreshCallsStdDev < 0 {
			return r.fail(errors.ErrStructural, "check.callers.std_dev", c.Name, resolved.FreshCallsStdDev)
		}
		r.rm.Callers[i] = resolved
	}

	if freshCalls == 0 {
		return r.fail(errors.ErrAggregate, "check.callers.no_calls")
	}
	if freshCalls > MaxFreshCalls {
		return r.fail(errors.ErrAggregate, "check.callers.too_many_calls", freshCalls, MaxFreshCalls)
	}
	return nil
}

func (r *resolver) resolveCaller(index int, c models.CallerType) (Caller, *errors.ModelError) {
	out := Caller{
		Index:               index,
		Name:                c.Name,
		FreshCallsMean:      int(math.Round(c.FreshCallsMean)),
		FreshCallsStdDev:    c.FreshCallsStdDev,
		ScoreBase:           c.ScoreBase,
		ScorePerMillisecond: c.ScorePerSecond / 1000,
		ScoreForwarded:      c.ScoreForwarded,
		BlocksLine:          c.BlocksLine,
		ServiceLevelSeconds: c.ServiceLevelSeconds,
		Costs:               c.Costs,
	}
	if out.ServiceLevelSeconds <= 0 {
		out.ServiceLevelSeconds = r.d.model.ServiceLevelSeconds
	}
	if out.FreshCallsMean < 0 {
		return out, r.fail(errors.ErrStructural, "check.callers.negative_calls", c.Name)
	}
	if len(c.FreshCalls) > 0 && !c.FreshCalls.Valid() {
		return out, r.fail(errors.ErrStructural, "check.callers.curve_size", c.Name)
	}
	out.FreshCalls = c.FreshCalls.Normalized()

	var err *errors.ModelError
	if out.Patience, err = r.patience(c); err != nil {
		return out, err
	}

	// Retries.
	retry := &c.Retry
	probabilities := []struct {
		value *float64
		raw   float64
		what  string
	}{
		{&out.RetryAfterBlockedFirst.Probability, retry.ProbabilityAfterBlockedFirst, "retry_blocked_first"},
		{&out.RetryAfterBlocked.Probability, retry.ProbabilityAfterBlocked, "retry_blocked"},
		{&out.RetryAfterGiveUpFirst.Probability, retry.ProbabilityAfterGiveUpFirst, "retry_give_up_first"},
		{&out.RetryAfterGiveUp.Probability, retry.ProbabilityAfterGiveUp, "retry_give_up"},
	}
	for _, p := range probabilities {
		if *p.value, err = r.probability(c.Name, p.raw, p.what); err != nil {
			return out, err
		}
	}
	typeChanges := []struct {
		next  *Choice
		rates []models.Rate
		what  string
	}{
		{&out.RetryAfterBlockedFirst.Next, retry.AfterBlockedFirst, "retry_blocked_first"},
		{&out.RetryAfterBlocked.Next, retry.AfterBlocked, "retry_blocked"},
		{&out.RetryAfterGiveUpFirst.Next, retry.AfterGiveUpFirst, "retry_give_up_first"},
		{&out.RetryAfterGiveUp.Next, retry.AfterGiveUp, "retry_give_up"},
	}
	for _, tc := range typeChanges {
		if *tc.next, err = r.resolveRates(c.Name, r.word(tc.what), tc.rates, 0, true); err != nil {
			return out, err
		}
	}
	retries := out.RetryAfterBlockedFirst.Active() || out.RetryAfterBlocked.Active() ||
		out.RetryAfterGiveUpFirst.Active() || out.RetryAfterGiveUp.Active()
	if out.RetryTime, err = r.callerDistribution(c.Name, retry.Time, "retry_time", retries); err != nil {
		return out, err
	}

	// Forwarding.
	if out.Forward.Probability, err = r.probability(c.Name, c.Forward.Probability, "forward"); err != nil {
		return out, err
	}
	if out.Forward.Next, err = r.resolveRates(c.Name, r.word("forward"), c.Forward.Targets, out.Forward.Probability, false); err != nil {
		return out, err
	}
	if out.forwardBySkill, err = r.resolveSkillRedirects(&out, c.Name, "forward", c.Forward.BySkillLevel); err != nil {
		return out, err
	}

	// Recall.
	if out.Recall.Probability, err = r.probability(c.Name, c.Recall.Probability, "recall"); err != nil {
		return out, err
	}
	if out.Recall.Next, err = r.resolveRates(c.Name, r.word("recall"), c.Recall.Targets, out.Recall.Probability, false); err != nil {
		return out, err
	}
	if out.recallBySkill, err = r.resolveSkillRedirects(&out, c.Name, "recall", c.Recall.BySkillLevel); err != nil {
		return out, err
	}
	recalls := out.Recall.Active()
	for _, idx := range out.recallBySkill {
		if idx >= 0 && out.skillTransitions[idx].Active() {
			recalls = true
		}
	}
	if out.RecallTime, err = r.callerDistribution(c.Name, c.Recall.Time, "recall_time", recalls); err != nil {
		return out, err
	}
	return out, nil
}

// probability checks a controlling probability. Values above 1 are always
// rejected; negative values are rejected in strict mode and treated as zero
// otherwise.
func (r *resolver) probability(caller string, p float64, what string) (float64, *errors.ModelError) {
	switch {
	case p > 1 || math.IsNaN(p):
		return 0, r.fail(errors.ErrStructural, "check.callers.probability", caller, r.word(what))
	case p < 0:
		if r.opts.Strict {
			return 0, r.fail(errors.ErrReferential, "check.callers.probability", caller, r.word(what))
		}
		return 0, nil
	}
	return p, nil
}

// resolveRates turns a list of weighted caller type names into a choice.
//
// Unknown names are dropped in lenient mode. In strict mode they are
// rejected, except in type-change lists where an entry with weight zero is
// harmless. Forward and recall lists reject unknown names even at weight
// zero, unlike the retry lists. Negative weights are rejected in strict
// mode and count as zero otherwise. Type-change lists without positive
// weights mean "keep the type"; other lists must have positive weights
// whenever probability is positive. A list that ends up with zero total
// weight is empty.
func (r *resolver) resolveRates(caller, what string, rates []models.Rate, probability float64, typeChange bool) (Choice, *errors.ModelError) {
	if typeChange {
		positive := false
		for _, rt := range rates {
			if rt.Weight > 0 {
				positive = true
				break
			}
		}
		if !positive {
			return Choice{}, nil
		}
	}

	targets := make([]int, 0, len(rates))
	weights := make([]float64, 0, len(rates))
	sum := 0.0
	for _, rt := range rates {
		target, ok := r.lookupCaller(rt.Target)
		if !ok {
			if r.opts.Strict && (rt.Weight != 0 || !typeChange) {
				return Choice{}, r.fail(errors.ErrReferential, "check.callers.unknown_target", caller, what, rt.Target)
			}
			continue
		}
		w := rt.Weight
		if w < 0 || math.IsNaN(w) {
			if r.opts.Strict {
				return Choice{}, r.fail(errors.ErrReferential, "check.callers.negative_rate", caller, what, rt.Target)
			}
			w = 0
		}
		targets = append(targets, target)
		weights = append(weights, w)
		sum += w
	}

	if sum == 0 {
		if !typeChange && probability > 0 {
			return Choice{}, r.fail(errors.ErrStructural, "check.callers.no_rates", caller, what)
		}
		return Choice{}, nil
	}
	for i := range weights {
		weights[i] /= sum
	}
	return newChoice(targets, weights), nil
}

// resolveSkillRedirects resolves the skill level specific forwarding or
// recall lists. The transitions are appended to out.skillTransitions; the
// result maps each skill level index to its transition, -1 if none.
func (r *resolver) resolveSkillRedirects(out *Caller, caller, what string, list []models.SkillRedirect) ([]int, *errors.ModelError) {
	bySkill := make([]int, len(r.rm.Skills))
	for i := range bySkill {
		bySkill[i] = -1
	}

	for _, sr := range list {
		label := r.tr.T("words.for_skill", r.word(what), sr.SkillLevel)
		if sr.Probability < 0 || sr.Probability > 1 || math.IsNaN(sr.Probability) {
			return nil, r.fail(errors.ErrStructural, "check.callers.skill_probability", caller, label)
		}
		skill, ok := r.lookupSkill(sr.SkillLevel)
		if !ok {
			return nil, r.fail(errors.ErrStructural, "check.callers.unknown_skill", caller, r.word(what), sr.SkillLevel)
		}
		if bySkill[skill] >= 0 {
			return nil, r.fail(errors.ErrStructural, "check.callers.duplicate_skill", caller, r.word(what), sr.SkillLevel)
		}

		targets := make([]int, 0, len(sr.Targets))
		weights := make([]float64, 0, len(sr.Targets))
		sum := 0.0
		for _, rt := range sr.Targets {
			target, ok := r.lookupCaller(rt.Target)
			if !ok {
				if r.opts.Strict {
					return nil, r.fail(errors.ErrReferential, "check.callers.unknown_target", caller, label, rt.Target)
				}
				continue
			}
			w := rt.Weight
			if w < 0 || math.IsNaN(w) {
				if r.opts.Strict {
					return nil, r.fail(errors.ErrReferential, "check.callers.negative_rate", caller, label, rt.Target)
				}
				w = 0
			}
			targets = append(targets, target)
			weights = append(weights, w)
			sum += w
		}

		t := Transition{Probability: sr.Probability}
		switch {
		case sum > 0:
			for i := range weights {
				weights[i] /= sum
			}
			t.Next = newChoice(targets, weights)
		case sr.Probability > 0:
			return nil, r.fail(errors.ErrStructural, "check.callers.no_rates", caller, label)
		}

		bySkill[skill] = len(out.skillTransitions)
		out.skillTransitions = append(out.skillTransitions, t)
	}
	return bySkill, nil
}

// patience builds the waiting time tolerance distribution.
func (r *resolver) patience(c models.CallerType) (distribution.Distribution, *errors.ModelError) {
	p := c.Patience
	switch p.Mode {
	case "", models.PatienceOff:
		return nil, nil
	case models.PatienceShort:
		return r.callerDistribution(c.Name, p.Short, "patience", true)
	case models.PatienceLong:
		return r.callerDistribution(c.Name, p.Long, "patience", true)
	case models.PatienceCalculated:
		if p.MeanWait <= 0 || p.AbandonProbability <= 0 || p.AbandonProbability > 1 {
			return nil, r.fail(errors.ErrStructural, "check.callers.patience_estimate", c.Name)
		}
		mean := p.MeanWait / p.AbandonProbability
		return distribution.LogNormalFromMeanSD(math.Max(1, mean+p.Offset), mean), nil
	default:
		return nil, r.fail(errors.ErrStructural, "check.callers.patience_mode", c.Name, string(p.Mode))
	}
}

// callerDistribution parses a distribution of a caller type. An empty text
// is fine when the distribution is never used.
func (r *resolver) callerDistribution(caller, text, what string, needed bool) (distribution.Distribution, *errors.ModelError) {
	if strings.TrimSpace(text) == "" && !needed {
		return nil, nil
	}
	d, err := distribution.Parse(text)
	if err != nil {
		return nil, r.fail(errors.ErrStructural, "check.callers.distribution", caller, r.word(what), text)
	}
	return d, nil
}
