package models

// Model is the declarative call-center model as authored by the user. It is
// a plain value: compilation reads it and never writes to it.
type Model struct {
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	Callers     []CallerType `yaml:"callers" json:"callers"`
	Callcenters []Callcenter `yaml:"callcenters" json:"callcenters"`
	SkillLevels []SkillLevel `yaml:"skill_levels" json:"skill_levels"`

	// MaxQueueLength is an expression in the variable "a", the number of
	// agents currently working.
	MaxQueueLength string `yaml:"max_queue_length" json:"max_queue_length"`
	Days           int    `yaml:"days" json:"days"`

	// Shift lengths are counted in half hours.
	PreferredShiftLength int `yaml:"preferred_shift_length" json:"preferred_shift_length"`
	MinimumShiftLength   int `yaml:"minimum_shift_length" json:"minimum_shift_length"`

	ServiceLevelSeconds int `yaml:"service_level_seconds" json:"service_level_seconds"`

	// Efficiency scales the staffing curves before shifts are planned,
	// Addition scales service times. Both have 48 half-hour values; nil
	// means 1 everywhere.
	Efficiency Curve `yaml:"efficiency,omitempty" json:"efficiency,omitempty"`
	Addition   Curve `yaml:"addition,omitempty" json:"addition,omitempty"`
}

// PatienceMode selects how long a caller waits before hanging up.
type PatienceMode string

const (
	PatienceOff        PatienceMode = "off"
	PatienceShort      PatienceMode = "short"
	PatienceLong       PatienceMode = "long"
	PatienceCalculated PatienceMode = "calculated"
)

// Patience describes the waiting time tolerance of a caller type.
type Patience struct {
	Mode PatienceMode `yaml:"mode" json:"mode"`
	// Short and Long are distributions in seconds such as "exp(300)". Long is
	// meant for callers waiting for hours, for example in a callback queue.
	Short string `yaml:"short,omitempty" json:"short,omitempty"`
	Long  string `yaml:"long,omitempty" json:"long,omitempty"`
	// MeanWait, AbandonProbability and Offset estimate the distribution in
	// calculated mode.
	MeanWait           float64 `yaml:"mean_wait,omitempty" json:"mean_wait,omitempty"`
	AbandonProbability float64 `yaml:"abandon_probability,omitempty" json:"abandon_probability,omitempty"`
	Offset             float64 `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// Rate is one weighted target caller type in a type-change list.
type Rate struct {
	Target string  `yaml:"target" json:"target"`
	Weight float64 `yaml:"weight" json:"weight"`
}

// RetryPolicy describes what happens after a blocked or abandoned call.
type RetryPolicy struct {
	Time string `yaml:"time" json:"time"`

	ProbabilityAfterBlockedFirst float64 `yaml:"probability_after_blocked_first" json:"probability_after_blocked_first"`
	ProbabilityAfterBlocked      float64 `yaml:"probability_after_blocked" json:"probability_after_blocked"`
	ProbabilityAfterGiveUpFirst  float64 `yaml:"probability_after_give_up_first" json:"probability_after_give_up_first"`
	ProbabilityAfterGiveUp       float64 `yaml:"probability_after_give_up" json:"probability_after_give_up"`

	// Type changes on retry. An empty or all-zero list keeps the type.
	AfterBlockedFirst []Rate `yaml:"after_blocked_first,omitempty" json:"after_blocked_first,omitempty"`
	AfterBlocked      []Rate `yaml:"after_blocked,omitempty" json:"after_blocked,omitempty"`
	AfterGiveUpFirst  []Rate `yaml:"after_give_up_first,omitempty" json:"after_give_up_first,omitempty"`
	AfterGiveUp       []Rate `yaml:"after_give_up,omitempty" json:"after_give_up,omitempty"`
}

// SkillRedirect overrides a redirect for calls served by one skill level.
type SkillRedirect struct {
	SkillLevel  string  `yaml:"skill_level" json:"skill_level"`
	Probability float64 `yaml:"probability" json:"probability"`
	Targets     []Rate  `yaml:"targets" json:"targets"`
}

// Redirect is a forwarding or recall step taken after a served call.
type Redirect struct {
	Probability  float64         `yaml:"probability" json:"probability"`
	Targets      []Rate          `yaml:"targets,omitempty" json:"targets,omitempty"`
	BySkillLevel []SkillRedirect `yaml:"by_skill_level,omitempty" json:"by_skill_level,omitempty"`
	// Time is the delay before a recall; unused for forwarding.
	Time string `yaml:"time,omitempty" json:"time,omitempty"`
}

// CallerCosts are the revenue and cost figures of a caller type.
type CallerCosts struct {
	RevenuePerCall       float64 `yaml:"revenue_per_call,omitempty" json:"revenue_per_call,omitempty"`
	CostPerGiveUp        float64 `yaml:"cost_per_give_up,omitempty" json:"cost_per_give_up,omitempty"`
	CostPerWaitingSecond float64 `yaml:"cost_per_waiting_second,omitempty" json:"cost_per_waiting_second,omitempty"`
}

// CallerType is a class of callers sharing arrivals, patience and routing.
type CallerType struct {
	Name     string `yaml:"name" json:"name"`
	Disabled bool   `yaml:"disabled,omitempty" json:"disabled,omitempty"`

	FreshCallsMean   float64 `yaml:"fresh_calls_mean" json:"fresh_calls_mean"`
	FreshCallsStdDev float64 `yaml:"fresh_calls_std_dev,omitempty" json:"fresh_calls_std_dev,omitempty"`
	// FreshCalls is the arrival curve over the day.
	FreshCalls Curve `yaml:"fresh_calls" json:"fresh_calls"`

	ScoreBase      float64 `yaml:"score_base" json:"score_base"`
	ScorePerSecond float64 `yaml:"score_per_second" json:"score_per_second"`
	ScoreForwarded float64 `yaml:"score_forwarded" json:"score_forwarded"`

	BlocksLine          bool `yaml:"blocks_line,omitempty" json:"blocks_line,omitempty"`
	ServiceLevelSeconds int  `yaml:"service_level_seconds,omitempty" json:"service_level_seconds,omitempty"`

	Patience Patience    `yaml:"patience" json:"patience"`
	Retry    RetryPolicy `yaml:"retry" json:"retry"`
	Forward  Redirect    `yaml:"forward" json:"forward"`
	Recall   Redirect    `yaml:"recall" json:"recall"`
	Costs    CallerCosts `yaml:"costs,omitempty" json:"costs,omitempty"`
}

// SkillCaller is the service definition of one caller type in a skill level.
// The interval maps hold sparse half-hour overrides keyed 0..47.
type SkillCaller struct {
	Caller             string `yaml:"caller" json:"caller"`
	ServiceTime        string `yaml:"service_time" json:"service_time"`
	ServiceTimeAddOn   string `yaml:"service_time_add_on,omitempty" json:"service_time_add_on,omitempty"`
	PostProcessingTime string `yaml:"post_processing_time" json:"post_processing_time"`
	Score              int    `yaml:"score,omitempty" json:"score,omitempty"`

	IntervalServiceTime        map[int]string `yaml:"interval_service_time,omitempty" json:"interval_service_time,omitempty"`
	IntervalServiceTimeAddOn   map[int]string `yaml:"interval_service_time_add_on,omitempty" json:"interval_service_time_add_on,omitempty"`
	IntervalPostProcessingTime map[int]string `yaml:"interval_post_processing_time,omitempty" json:"interval_post_processing_time,omitempty"`
}

// SkillLevel is a named capability set of agent groups.
type SkillLevel struct {
	Name    string        `yaml:"name" json:"name"`
	Callers []SkillCaller `yaml:"callers" json:"callers"`
}

// StaffingMode selects how an agent group defines its working times.
type StaffingMode string

const (
	StaffingFixed   StaffingMode = "fixed"
	StaffingCurve   StaffingMode = "curve"
	StaffingCallers StaffingMode = "callers"
)

// CallerCost is the per caller type cost of an agent group.
type CallerCost struct {
	Caller    string  `yaml:"caller" json:"caller"`
	PerCall   float64 `yaml:"per_call" json:"per_call"`
	PerMinute float64 `yaml:"per_minute" json:"per_minute"`
}

// AgentGroup is a block of agents sharing a skill level and a staffing
// definition.
type AgentGroup struct {
	Disabled bool         `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Mode     StaffingMode `yaml:"mode" json:"mode"`

	// Fixed shift, times in seconds after midnight.
	Count   int  `yaml:"count,omitempty" json:"count,omitempty"`
	Start   int  `yaml:"start,omitempty" json:"start,omitempty"`
	End     int  `yaml:"end,omitempty" json:"end,omitempty"`
	OpenEnd bool `yaml:"open_end,omitempty" json:"open_end,omitempty"`

	// Staffing curve.
	Staffing         Curve `yaml:"staffing,omitempty" json:"staffing,omitempty"`
	LastShiftOpenEnd bool  `yaml:"last_shift_open_end,omitempty" json:"last_shift_open_end,omitempty"`

	// Derived from caller arrivals.
	ByCallers          []Rate `yaml:"by_callers,omitempty" json:"by_callers,omitempty"`
	ByCallersHalfHours int    `yaml:"by_callers_half_hours,omitempty" json:"by_callers_half_hours,omitempty"`

	SkillLevel  string       `yaml:"skill_level" json:"skill_level"`
	CostPerHour float64      `yaml:"cost_per_hour,omitempty" json:"cost_per_hour,omitempty"`
	Costs       []CallerCost `yaml:"costs,omitempty" json:"costs,omitempty"`

	// Shift lengths in half hours; zero or less uses the model setting.
	PreferredShiftLength int `yaml:"preferred_shift_length,omitempty" json:"preferred_shift_length,omitempty"`
	MinimumShiftLength   int `yaml:"minimum_shift_length,omitempty" json:"minimum_shift_length,omitempty"`

	Efficiency Curve `yaml:"efficiency,omitempty" json:"efficiency,omitempty"`
	Addition   Curve `yaml:"addition,omitempty" json:"addition,omitempty"`
}

// CallerMinWait delays serving a caller type in one callcenter.
type CallerMinWait struct {
	Caller  string `yaml:"caller" json:"caller"`
	Seconds int    `yaml:"seconds" json:"seconds"`
}

// Callcenter is a site with its own agent groups and routing parameters.
type Callcenter struct {
	Name     string       `yaml:"name" json:"name"`
	Disabled bool         `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	Agents   []AgentGroup `yaml:"agents" json:"agents"`

	// TechnicalFreeTime is the setup time in seconds before a call is
	// connected.
	TechnicalFreeTime              int  `yaml:"technical_free_time,omitempty" json:"technical_free_time,omitempty"`
	TechnicalFreeTimeIsWaitingTime bool `yaml:"technical_free_time_is_waiting_time,omitempty" json:"technical_free_time_is_waiting_time,omitempty"`

	Score                           int     `yaml:"score" json:"score"`
	AgentScoreFreeTimeSinceLastCall float64 `yaml:"agent_score_free_time_since_last_call" json:"agent_score_free_time_since_last_call"`
	AgentScoreFreeTimePart          float64 `yaml:"agent_score_free_time_part" json:"agent_score_free_time_part"`

	MinWaitingTimes []CallerMinWait `yaml:"min_waiting_times,omitempty" json:"min_waiting_times,omitempty"`

	Efficiency Curve `yaml:"efficiency,omitempty" json:"efficiency,omitempty"`
	Addition   Curve `yaml:"addition,omitempty" json:"addition,omitempty"`
}

// StaffingMode returns the explicit mode, or infers it from the fields that
// are set when the mode is omitted.
func (g AgentGroup) StaffingMode() StaffingMode {
	switch {
	case g.Mode != "":
		return g.Mode
	case len(g.Staffing) > 0:
		return StaffingCurve
	case len(g.ByCallers) > 0:
		return StaffingCallers
	default:
		return StaffingFixed
	}
}
