package parser_test

import (
	"bytes"
	"os"
	"strings"
	"testing"

	customerrors "callcenter-sim/errors"
	"callcenter-sim/models"
	"callcenter-sim/parser"
	"callcenter-sim/runmodel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestModel(t *testing.T) *models.Model {
	t.Helper()
	f, err := os.Open("testdata/model.yaml")
	require.NoError(t, err)
	defer f.Close()

	m, err := parser.ParseModel(f)
	require.NoError(t, err)
	return m
}

func TestParseModel_File(t *testing.T) {
	m := loadTestModel(t)

	assert.Equal(t, "Hotline", m.Name)
	assert.Equal(t, "2*a", m.MaxQueueLength)
	require.Len(t, m.Callers, 2)
	assert.Equal(t, 2000.0, m.Callers[0].FreshCallsMean)
	assert.Len(t, m.Callers[0].FreshCalls, 24)
	assert.Equal(t, models.PatienceCalculated, m.Callers[1].Patience.Mode)
	assert.Equal(t, []models.Rate{{Target: "Business", Weight: 1}}, m.Callers[0].Forward.Targets)
	assert.Equal(t, map[int]string{24: "lognormal(300;200)"}, m.SkillLevels[0].Callers[1].IntervalServiceTime)
	require.Len(t, m.Callcenters, 2)
	assert.Equal(t, models.StaffingCurve, m.Callcenters[0].Agents[0].StaffingMode())
	assert.Equal(t, models.StaffingFixed, m.Callcenters[0].Agents[1].StaffingMode())
	assert.Equal(t, models.StaffingCallers, m.Callcenters[1].Agents[0].StaffingMode())

	rm, err := runmodel.Compile(m, runmodel.Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 2500, rm.TotalFreshCalls())
	assert.True(t, rm.AgentCostsUsed)
	assert.True(t, rm.CallerMinWaitingTimeUsed)
	assert.Equal(t, []int{30000}, rm.Callers[1].RecheckTimes)

	north := rm.Callcenters[0].Agents
	assert.Equal(t, runmodel.Agent{Group: 1, Count: 4, Start: 28800, End: 61200, Skill: 1, CostPerHour: 35,
		CostPerCall: []float64{0, 1.5}, CostPerMinute: []float64{0, 0.2}}, north[len(north)-1])
}

func TestParseModel(t *testing.T) {
	tests := map[string]struct {
		input         string
		check         func(t *testing.T, m *models.Model)
		expectedError error
	}{
		"DefaultsForMissingGlobals": {
			input: `
name: Minimal
callers:
  - name: A
    fresh_calls_mean: 10
`,
			check: func(t *testing.T, m *models.Model) {
				assert.Equal(t, "Minimal", m.Name)
				assert.Equal(t, models.DefaultDays, m.Days)
				assert.Equal(t, models.DefaultMaxQueueLength, m.MaxQueueLength)
				assert.Equal(t, models.DefaultPreferredShiftLength, m.PreferredShiftLength)
				assert.Len(t, m.Callers, 1)
			},
		},
		"ExplicitGlobals": {
			input: `
name: Explicit
days: 7
max_queue_length: "a+10"
minimum_shift_length: 2
`,
			check: func(t *testing.T, m *models.Model) {
				assert.Equal(t, 7, m.Days)
				assert.Equal(t, "a+10", m.MaxQueueLength)
				assert.Equal(t, 2, m.MinimumShiftLength)
			},
		},
		"Error_UnknownField": {
			input:         "name: Typo\ndayz: 7\n",
			expectedError: customerrors.ErrInvalidModel,
		},
		"Error_WrongType": {
			input:         "name: Wrong\ndays: many\n",
			expectedError: customerrors.ErrInvalidModel,
		},
		"Error_EmptyDocument": {
			input:         "   \n",
			expectedError: customerrors.ErrInvalidModel,
		},
		"Error_Syntax": {
			input:         "name: [unclosed\n",
			expectedError: customerrors.ErrInvalidModel,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parser.ParseModel(strings.NewReader(tt.input))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestFormatModel_RoundTrip(t *testing.T) {
	m := loadTestModel(t)

	var buf bytes.Buffer
	require.NoError(t, parser.FormatModel(&buf, m))

	again, err := parser.ParseModel(&buf)
	require.NoError(t, err)
	assert.True(t, m.Equal(again, 1), m.Diff(again))
	assert.Equal(t, models.Fingerprint(m), models.Fingerprint(again))
}
