package lang_test

import (
	"testing"

	"callcenter-sim/lang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	require.NoError(t, lang.Err())

	supported := lang.Supported()
	require.NotEmpty(t, supported)
	assert.Equal(t, lang.Default, supported[0])
	assert.ElementsMatch(t, []string{"en", "de"}, supported)
}

func TestFor(t *testing.T) {
	tests := map[string]struct {
		preferred []string
		expected  string
	}{
		"Empty":          {preferred: nil, expected: "en"},
		"BlankString":    {preferred: []string{""}, expected: "en"},
		"Exact":          {preferred: []string{"de"}, expected: "de"},
		"Region":         {preferred: []string{"de-CH"}, expected: "de"},
		"AcceptLanguage": {preferred: []string{"fr-FR, de;q=0.8, en;q=0.5"}, expected: "de"},
		"Unsupported":    {preferred: []string{"ja"}, expected: "en"},
		"Garbage":        {preferred: []string{"!!"}, expected: "en"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, lang.For(tt.preferred...).Lang())
		})
	}
}

func TestTranslator_T(t *testing.T) {
	en := lang.For("en")
	de := lang.For("de")

	tests := map[string]struct {
		tr       *lang.Translator
		key      string
		args     []any
		expected string
	}{
		"Plain": {
			tr:       en,
			key:      "report.no_remarks",
			expected: "The model check found no problems.",
		},
		"WithArgs": {
			tr:       en,
			key:      "check.agents.unknown_skill",
			args:     []any{"X", 1, "North"},
			expected: `Unknown skill level "X" (group 1 in callcenter "North").`,
		},
		"German": {
			tr:       de,
			key:      "check.callers.duplicate",
			args:     []any{"A"},
			expected: `Der Kundentyp-Name "A" wird mehrfach verwendet.`,
		},
		"NestedWord": {
			tr:       en,
			key:      "words.for_skill",
			args:     []any{"recall", "Expert"},
			expected: `recall after skill level "Expert"`,
		},
		"MissingKey": {
			tr:       de,
			key:      "check.unknown.key",
			expected: "check.unknown.key",
		},
		"KeyOfSection": {
			tr:       en,
			key:      "check.callers",
			expected: "check.callers",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tr.T(tt.key, tt.args...))
		})
	}
}
