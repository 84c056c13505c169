package formatter

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"callcenter-sim/models"
	"callcenter-sim/runmodel"
	"callcenter-sim/scheduler"

	"github.com/gocarina/gocsv"
)

// intervalSeconds is the resolution of the headcount view.
const intervalSeconds = models.SecondsPerDay / models.HalfHours

// Plan holds prepared shift plan data used by all formatters
type Plan struct {
	Model       string         `json:"model"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Shifts      []ShiftRow     `json:"shifts"`
	HalfHours   []HalfHourData `json:"half_hours"`
}

// ShiftRow is one planned shift of an agent group
type ShiftRow struct {
	Callcenter string `json:"callcenter" csv:"callcenter"`
	Group      int    `json:"group" csv:"group"`
	Skill      string `json:"skill" csv:"skill"`
	Start      string `json:"start" csv:"start"`
	End        string `json:"end" csv:"end"`
	OpenEnd    bool   `json:"open_end" csv:"open_end"`
	Count      int    `json:"count" csv:"count"`
}

// HalfHourData groups working agents by callcenter for a half hour
type HalfHourData struct {
	Interval    int                         `json:"interval"`
	Time        string                      `json:"time"`
	Total       int                         `json:"total"`
	Callcenters map[string]*CallcenterGroup `json:"callcenters,omitempty"`
}

// CallcenterGroup holds the agents per skill level of a callcenter
type CallcenterGroup struct {
	Total  int            `json:"total"`
	Skills map[string]int `json:"skills"`
}

// NewPlan extracts and organizes the shifts of a compiled model for
// formatting
func NewPlan(rm *runmodel.RunModel) *Plan {
	plan := newPlan(rm.Name)
	for _, cc := range rm.Callcenters {
		for _, a := range cc.Agents {
			skill := ""
			if a.Skill >= 0 && a.Skill < len(rm.Skills) {
				skill = rm.Skills[a.Skill].Name
			}
			plan.add(cc.Name, a.Group+1, skill, scheduler.Shift{Start: a.Start, End: a.End, OpenEnd: a.OpenEnd, Count: a.Count})
		}
	}
	return plan
}

// PlanFromShifts wraps shifts synthesized outside a model, such as from a
// single staffing curve.
func PlanFromShifts(name string, shifts []scheduler.Shift) *Plan {
	plan := newPlan(name)
	for _, s := range shifts {
		plan.add(name, 1, "", s)
	}
	return plan
}

func newPlan(name string) *Plan {
	plan := &Plan{
		Model:     name,
		Shifts:    []ShiftRow{},
		HalfHours: make([]HalfHourData, models.HalfHours),
	}
	for i := range plan.HalfHours {
		plan.HalfHours[i] = HalfHourData{
			Interval:    i,
			Time:        clock(i * intervalSeconds),
			Callcenters: make(map[string]*CallcenterGroup),
		}
	}
	return plan
}

// add records a shift and its headcount per half hour
func (p *Plan) add(callcenter string, group int, skill string, s scheduler.Shift) {
	p.Shifts = append(p.Shifts, ShiftRow{
		Callcenter: callcenter,
		Group:      group,
		Skill:      skill,
		Start:      clock(s.Start),
		End:        clock(s.End),
		OpenEnd:    s.OpenEnd,
		Count:      s.Count,
	})

	for i, n := range scheduler.Headcount([]scheduler.Shift{s}, models.HalfHours) {
		if n == 0 {
			continue
		}
		hh := &p.HalfHours[i]
		if _, exists := hh.Callcenters[callcenter]; !exists {
			hh.Callcenters[callcenter] = &CallcenterGroup{
				Skills: make(map[string]int),
			}
		}
		hh.Callcenters[callcenter].Skills[skill] += n
		hh.Callcenters[callcenter].Total += n
		hh.Total += n
	}
}

// FormatText returns the text representation of the plan
func FormatText(plan *Plan) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Shift plan %s (%d shifts)\n", plan.Model, len(plan.Shifts)))
	for _, s := range plan.Shifts {
		sb.WriteString(formatShiftLine(s))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for _, hh := range plan.HalfHours {
		sb.WriteString(formatTextLine(hh))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of the plan
func FormatJSON(plan *Plan) string {
	jsonBytes, _ := json.MarshalIndent(plan, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of the planned shifts
func FormatCSV(plan *Plan) (string, error) {
	out, err := gocsv.MarshalString(&plan.Shifts)
	if err != nil {
		return "", fmt.Errorf("error writing CSV: %w", err)
	}
	return out, nil
}

// Format renders the plan in one of the formats text, json or csv.
func Format(plan *Plan, format string) (string, error) {
	switch format {
	case "json":
		return FormatJSON(plan), nil
	case "csv":
		return FormatCSV(plan)
	case "text", "":
		return FormatText(plan), nil
	default:
		return "", fmt.Errorf("format must be one of: text, json, csv (got: %s)", format)
	}
}

// formatShiftLine formats a single shift for text output
func formatShiftLine(s ShiftRow) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %s #%d", s.Callcenter, s.Group))
	if s.Skill != "" {
		sb.WriteString(fmt.Sprintf(" [%s]", s.Skill))
	}
	sb.WriteString(fmt.Sprintf(": %s-%s", s.Start, s.End))
	if s.OpenEnd {
		sb.WriteString("+")
	}
	sb.WriteString(fmt.Sprintf(" x%d", s.Count))
	return sb.String()
}

// formatTextLine formats a single half hour line for text output
func formatTextLine(data HalfHourData) string {
	if data.Total == 0 {
		return fmt.Sprintf("%s : total=0 ; none", data.Time)
	}

	var parts []string
	for _, cc := range sortedKeys(data.Callcenters) {
		ccData := data.Callcenters[cc]
		var ccParts []string
		ccParts = append(ccParts, fmt.Sprintf("total=%d", ccData.Total))

		for _, skill := range sortedKeys(ccData.Skills) {
			if skill == "" {
				continue
			}
			ccParts = append(ccParts, fmt.Sprintf("%s=%d", skill, ccData.Skills[skill]))
		}

		parts = append(parts, fmt.Sprintf("%s: %s", cc, strings.Join(ccParts, ", ")))
	}

	return fmt.Sprintf("%s : total=%d ; [%s]", data.Time, data.Total, strings.Join(parts, ", "))
}

// clock formats seconds after midnight as HH:MM; midnight at the end of
// the day is 24:00.
func clock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/3600, seconds%3600/60)
}

// sortedKeys returns the map keys in order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
