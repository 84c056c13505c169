package runmodel

import (
	"math"
	"strings"

	"callcenter-sim/distribution"
	"callcenter-sim/lang"
	"callcenter-sim/metrics"
	"callcenter-sim/models"

	version "github.com/hashicorp/go-version"
)

// FormatVersion is the newest model format this build understands.
const FormatVersion = "1.2.0"

// Plausibility limits.
const (
	manyFreshCalls       = 1000000
	manyAgentHalfHours   = 16 * 100000
	largeAgentGroup      = 200000
	longServiceSeconds   = 3600
	shortServiceSeconds  = 5
	staffingRatio        = 10
	scoreIgnoresWaitTime = 0.001
)

// CheckPlausibility returns advisory warnings about the model. They never
// prevent a simulation.
func (rm *RunModel) CheckPlausibility() []string {
	m := &rm.model
	tr := rm.tr
	var warnings []string

	callerCount, freshCalls := 0, 0
	for _, c := range m.Callers {
		if c.Disabled {
			continue
		}
		forward := c.Forward.Probability
		for _, sr := range c.Forward.BySkillLevel {
			forward = math.Max(forward, sr.Probability)
		}
		callerCount += int(math.Round(c.FreshCallsMean * (1 + forward + forward*forward)))
		freshCalls += int(math.Round(c.FreshCallsMean))
	}

	agentHalfHours, largestGroup := 0, 0
	for _, cc := range m.Callcenters {
		if cc.Disabled {
			continue
		}
		for _, g := range cc.Agents {
			if g.Disabled {
				continue
			}
			size := groupHalfHours(g)
			agentHalfHours += size
			largestGroup = max(largestGroup, size)
		}
	}

	minService, maxService := float64(models.SecondsPerDay), 0.0
	for _, s := range m.SkillLevels {
		for _, sc := range s.Callers {
			service, err := distribution.Parse(sc.ServiceTime)
			if err != nil {
				continue
			}
			total := service.Mean()
			if post, err := distribution.Parse(sc.PostProcessingTime); err == nil {
				total += post.Mean()
			}
			minService = math.Min(minService, total)
			maxService = math.Max(maxService, total)
		}
	}

	if freshCalls > manyFreshCalls {
		warnings = append(warnings, tr.T("plausibility.many_fresh_calls", freshCalls))
	}
	if agentHalfHours > manyAgentHalfHours {
		warnings = append(warnings, tr.T("plausibility.many_agent_half_hours", agentHalfHours))
	}
	if largestGroup > largeAgentGroup {
		warnings = append(warnings, tr.T("plausibility.large_agent_group", largestGroup))
	}

	if maxService > longServiceSeconds {
		warnings = append(warnings, tr.T("plausibility.long_service_times"))
	}
	if minService < shortServiceSeconds {
		warnings = append(warnings, tr.T("plausibility.short_service_times"))
	}

	// Offered load against staffing, both in agent half hours.
	if staffingRatio*float64(callerCount)*maxService/1800 < float64(agentHalfHours) {
		warnings = append(warnings, tr.T("plausibility.many_agents"))
	}
	if float64(callerCount)*minService/1800 > staffingRatio*float64(agentHalfHours) {
		warnings = append(warnings, tr.T("plausibility.many_calls"))
	}

	for _, c := range m.Callers {
		if !c.Disabled && math.Abs(c.ScorePerSecond) < scoreIgnoresWaitTime {
			warnings = append(warnings, tr.T("plausibility.waiting_time_not_scored", c.Name))
		}
	}

	if minimumShiftLengthSet(m) {
		warnings = append(warnings, tr.T("plausibility.minimum_shift_length"))
	}

	if w := versionWarning(tr, m.Version); w != "" {
		warnings = append(warnings, w)
	}

	metrics.PlausibilityWarnings.Set(float64(len(warnings)))
	return warnings
}

// Plausibility returns the warnings as one text, one per line, or "" when
// there are none.
func (rm *RunModel) Plausibility() string {
	return strings.Join(rm.CheckPlausibility(), "\n")
}

// groupHalfHours estimates the working time of an agent group in agent half
// hours.
func groupHalfHours(g models.AgentGroup) int {
	switch g.StaffingMode() {
	case models.StaffingCurve:
		if !g.Staffing.Valid() {
			return 0
		}
		return int(g.Staffing.Sum() * models.HalfHours / float64(len(g.Staffing)))
	case models.StaffingCallers:
		return g.ByCallersHalfHours
	default:
		return int(math.Round(float64(g.Count) * float64(g.End-g.Start) / 1800))
	}
}

// minimumShiftLengthSet reports whether a minimum shift length of at least
// two half hours applies to any planned group.
func minimumShiftLengthSet(m *models.Model) bool {
	if m.MinimumShiftLength >= 2 {
		return true
	}
	for _, cc := range m.Callcenters {
		if cc.Disabled {
			continue
		}
		for _, g := range cc.Agents {
			if !g.Disabled && g.StaffingMode() != models.StaffingFixed && g.MinimumShiftLength >= 2 {
				return true
			}
		}
	}
	return false
}

func versionWarning(tr *lang.Translator, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	got, err := version.NewVersion(v)
	if err != nil {
		return tr.T("plausibility.invalid_version", v)
	}
	if got.GreaterThan(version.Must(version.NewVersion(FormatVersion))) {
		return tr.T("plausibility.newer_version", v, FormatVersion)
	}
	return ""
}

// Check compiles the model leniently and strictly and reports the outcome
// together with the plausibility warnings, for display to the user. The
// report is never empty.
func Check(m *models.Model, opts Options) string {
	tr := lang.For(opts.Language)
	var sb strings.Builder

	lenient := opts
	lenient.Strict = false
	rm, err := Compile(m, lenient)
	if err != nil {
		sb.WriteString(tr.T("report.error"))
		sb.WriteString("\n")
		sb.WriteString(err.Error())
	} else {
		strict := opts
		strict.Strict = true
		if _, err := Compile(m, strict); err != nil {
			sb.WriteString(tr.T("report.strict_error"))
			sb.WriteString("\n")
			sb.WriteString(err.Error())
			if !opts.Strict {
				sb.WriteString("\n")
				sb.WriteString(tr.T("report.strict_ignorable"))
			}
		}

		if warnings := rm.Plausibility(); warnings != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(tr.T("report.info"))
			sb.WriteString("\n")
			sb.WriteString(warnings)
		}
	}

	if sb.Len() == 0 {
		sb.WriteString(tr.T("report.no_remarks"))
	}
	return sb.String()
}
