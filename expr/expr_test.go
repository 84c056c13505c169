package expr_test

import (
	"sync"
	"testing"

	"callcenter-sim/expr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	tests := map[string]struct {
		src      string
		vars     []string
		values   []float64
		expected float64
	}{
		"Constant":      {src: "500", expected: 500},
		"ConstantVars":  {src: "12.5", vars: []string{"a"}, values: []float64{3}, expected: 12.5},
		"Linear":        {src: "2*a+10", vars: []string{"a"}, values: []float64{5}, expected: 20},
		"Power":         {src: "a^2", vars: []string{"a"}, values: []float64{3}, expected: 9},
		"MathFunction":  {src: "max(a;20)", vars: []string{"a"}, values: []float64{7}, expected: 20},
		"Sqrt":          {src: "sqrt(w)*10", vars: []string{"w"}, values: []float64{16}, expected: 40},
		"TwoVariables":  {src: "a-b", vars: []string{"a", "b"}, values: []float64{10, 4}, expected: 6},
		"Parenthesized": {src: "(a+1)*(a-1)", vars: []string{"a"}, values: []float64{4}, expected: 15},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e, err := expr.Compile(tc.src, tc.vars...)
			require.NoError(t, err)
			got, err := e.Eval(tc.values...)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 1e-12)
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := map[string]struct {
		src  string
		vars []string
	}{
		"Empty":           {src: "  "},
		"Syntax":          {src: "a+*2", vars: []string{"a"}},
		"UnknownVariable": {src: "b*2", vars: []string{"a"}},
		"UnknownFunction": {src: "frobnicate(a)", vars: []string{"a"}},
		"BadVariableName": {src: "1", vars: []string{"1a"}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := expr.Compile(tc.src, tc.vars...)
			assert.ErrorIs(t, err, expr.ErrInvalid)
		})
	}
}

func TestEval_NotFinite(t *testing.T) {
	tests := map[string]struct {
		src   string
		value float64
	}{
		"NotANumber":     {src: "'x'", value: 2},
		"DivisionByZero": {src: "1/(a-1)", value: 1},
		"LogOfZero":      {src: "log(a-1)", value: 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// Singular points are only an error where the value is needed.
			e, err := expr.Compile(tc.src, "a")
			require.NoError(t, err)
			_, err = e.Eval(tc.value)
			assert.ErrorIs(t, err, expr.ErrInvalid)
		})
	}

	got, err := expr.MustCompile("a/(a-1)", "a").Eval(3)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got, 1e-12)
}

func TestEval_WrongArity(t *testing.T) {
	e := expr.MustCompile("a+1", "a")
	_, err := e.Eval()
	assert.ErrorIs(t, err, expr.ErrInvalid)
}

func TestConstant(t *testing.T) {
	v, ok := expr.MustCompile("0", "w").Constant()
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)

	_, ok = expr.MustCompile("w/2", "w").Constant()
	assert.False(t, ok)
}

func TestEval_Concurrent(t *testing.T) {
	e := expr.MustCompile("a*3", "a")

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := e.Eval(float64(i))
			if err != nil {
				errs <- err
				return
			}
			if got != float64(3*i) {
				errs <- assert.AnError
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
