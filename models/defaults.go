package models

// Model defaults for newly created entities.
const (
	DefaultMaxQueueLength       = "500"
	DefaultDays                 = 100
	DefaultPreferredShiftLength = 16
	DefaultMinimumShiftLength   = 1
	DefaultServiceLevelSeconds  = 20
)

// NewModel returns an empty model with default global parameters.
func NewModel(name string) Model {
	return Model{
		Name:                 name,
		MaxQueueLength:       DefaultMaxQueueLength,
		Days:                 DefaultDays,
		PreferredShiftLength: DefaultPreferredShiftLength,
		MinimumShiftLength:   DefaultMinimumShiftLength,
		ServiceLevelSeconds:  DefaultServiceLevelSeconds,
	}
}

// NewCallerType returns a caller type with one call per day spread evenly
// over 48 half hours and the usual retry and forwarding settings.
func NewCallerType(name string) CallerType {
	curve := make(Curve, HalfHours)
	for i := range curve {
		curve[i] = 1
	}
	return CallerType{
		Name:           name,
		FreshCallsMean: 1,
		FreshCalls:     curve,
		ScoreBase:      1,
		ScorePerSecond: 1,
		Patience: Patience{
			Mode:  PatienceShort,
			Short: "exp(300)",
			Long:  "exp(3600)",
		},
		Retry: RetryPolicy{
			Time:                         "exp(1200)",
			ProbabilityAfterBlockedFirst: 0.9,
			ProbabilityAfterBlocked:      0.8,
			ProbabilityAfterGiveUpFirst:  0.9,
			ProbabilityAfterGiveUp:       0.8,
		},
		Forward: Redirect{Probability: 0.2, Targets: []Rate{{Target: name, Weight: 1}}},
		Recall:  Redirect{Time: "exp(1800)"},
	}
}

// NewCallcenter returns a callcenter without agents.
func NewCallcenter(name string) Callcenter {
	return Callcenter{
		Name:                            name,
		Score:                           1,
		AgentScoreFreeTimeSinceLastCall: 1,
	}
}
