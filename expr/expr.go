// Package expr compiles the small arithmetic expressions a model may contain,
// such as the maximum queue length as a function of the number of agents.
package expr

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/dop251/goja"
)

// ErrInvalid is returned for expressions that do not compile, and by Eval
// for results that are not finite numbers.
var ErrInvalid = fmt.Errorf("invalid expression")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Expression is a compiled expression over a fixed list of variables. It is
// immutable; Eval may be called from several goroutines at once.
type Expression struct {
	src      string
	vars     []string
	constant bool
	value    float64
	program  *goja.Program
	pool     *sync.Pool
}

type instance struct {
	fn goja.Callable
	vm *goja.Runtime
}

// Compile parses src as an expression in vars. Plain numbers need no
// interpreter. Otherwise the usual operators and the functions of Math (sqrt,
// min, max, round, ...) are available; "^" is a power and ";" separates
// function arguments.
func Compile(src string, vars ...string) (*Expression, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalid)
	}
	for _, v := range vars {
		if !identifier.MatchString(v) {
			return nil, fmt.Errorf("%w: bad variable name %q", ErrInvalid, v)
		}
	}

	e := &Expression{src: src, vars: append([]string(nil), vars...)}
	if v, err := strconv.ParseFloat(src, 64); err == nil {
		e.constant = true
		e.value = v
		return e, nil
	}

	body := strings.NewReplacer("^", "**", ";", ",").Replace(src)
	code := fmt.Sprintf("(function(%s) { with (Math) { return (%s); } })", strings.Join(vars, ", "), body)
	program, err := goja.Compile("expression", code, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalid, src, err)
	}
	e.program = program
	e.pool = &sync.Pool{New: func() any { return e.instantiate() }}

	// Call once so references to unknown names fail at compile time. The
	// value itself may be singular at 1 and is not checked.
	trial := make([]float64, len(vars))
	for i := range trial {
		trial[i] = 1
	}
	if _, err := e.call(trial); err != nil {
		return nil, err
	}
	return e, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(src string, vars ...string) *Expression {
	e, err := Compile(src, vars...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Expression) instantiate() any {
	vm := goja.New()
	v, err := vm.RunProgram(e.program)
	if err != nil {
		return err
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return fmt.Errorf("%w: %q is not a function", ErrInvalid, e.src)
	}
	return &instance{fn: fn, vm: vm}
}

// Eval evaluates the expression with one value per variable.
func (e *Expression) Eval(values ...float64) (float64, error) {
	if len(values) != len(e.vars) {
		return 0, fmt.Errorf("%w: %q expects %d values, got %d", ErrInvalid, e.src, len(e.vars), len(values))
	}
	if e.constant {
		return e.value, nil
	}
	f, err := e.call(values)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalid, e.src)
	}
	return f, nil
}

func (e *Expression) call(values []float64) (float64, error) {
	got := e.pool.Get()
	inst, ok := got.(*instance)
	if !ok {
		return 0, got.(error)
	}
	defer e.pool.Put(inst)

	args := make([]goja.Value, len(values))
	for i, v := range values {
		args[i] = inst.vm.ToValue(v)
	}
	result, err := inst.fn(goja.Undefined(), args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalid, e.src, err)
	}
	return result.ToFloat(), nil
}

// Constant reports whether the expression is a plain number, and its value.
func (e *Expression) Constant() (float64, bool) {
	return e.value, e.constant
}

// String returns the source text.
func (e *Expression) String() string {
	return e.src
}
