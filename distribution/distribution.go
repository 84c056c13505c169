// Package distribution parses the text form of the waiting, service and
// retry time distributions used in a model, for example "exp(300)" or
// "lognormal(180;60)".
package distribution

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalid is returned for distribution texts that cannot be parsed.
var ErrInvalid = fmt.Errorf("invalid distribution")

// Distribution is a continuous distribution of durations in seconds.
// Implementations are read-only and safe for concurrent use; simulation
// workers sample through Quantile with their own random source.
type Distribution interface {
	Mean() float64
	StdDev() float64
	Quantile(p float64) float64
	String() string
}

type quantiler interface {
	Mean() float64
	StdDev() float64
	Quantile(p float64) float64
}

type named struct {
	quantiler
	text string
}

func (d named) String() string { return d.text }

// Constant always yields the same value.
type Constant float64

func (c Constant) Mean() float64            { return float64(c) }
func (c Constant) StdDev() float64          { return 0 }
func (c Constant) Quantile(float64) float64 { return float64(c) }
func (c Constant) String() string           { return "const(" + formatFloat(float64(c)) + ")" }

// Exponential returns the exponential distribution with the given mean.
func Exponential(mean float64) Distribution {
	if mean <= 0 {
		return Constant(0)
	}
	return named{distuv.Exponential{Rate: 1 / mean}, text("exp", mean)}
}

// LogNormalFromMeanSD returns the log-normal distribution with the given
// mean and standard deviation of the resulting values.
func LogNormalFromMeanSD(mean, sd float64) Distribution {
	if sd <= 0 || mean <= 0 {
		return Constant(math.Max(mean, 0))
	}
	sigma2 := math.Log(1 + sd*sd/(mean*mean))
	return named{
		distuv.LogNormal{Mu: math.Log(mean) - sigma2/2, Sigma: math.Sqrt(sigma2)},
		text("lognormal", mean, sd),
	}
}

// GammaFromMeanSD returns the gamma distribution with the given mean and
// standard deviation.
func GammaFromMeanSD(mean, sd float64) Distribution {
	if sd <= 0 || mean <= 0 {
		return Constant(math.Max(mean, 0))
	}
	return named{
		distuv.Gamma{Alpha: mean * mean / (sd * sd), Beta: mean / (sd * sd)},
		text("gamma", mean, sd),
	}
}

// Parse reads a distribution from its text form. A bare number is a
// constant.
func Parse(s string) (Distribution, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalid)
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Constant(v), nil
	}

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("%w: %q", ErrInvalid, s)
	}
	name := strings.ToLower(strings.TrimSpace(s[:open]))
	params, err := parseParams(s[open+1 : len(s)-1])
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalid, s, err)
	}

	want := map[string]int{
		"const": 1, "fixed": 1, "exp": 1, "exponential": 1,
		"lognormal": 2, "gamma": 2, "normal": 2, "uniform": 2,
		"triangle": 3, "triangular": 3,
	}
	n, ok := want[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown distribution %q", ErrInvalid, name)
	}
	if len(params) != n {
		return nil, fmt.Errorf("%w: %s expects %d parameters, got %d", ErrInvalid, name, n, len(params))
	}

	switch name {
	case "const", "fixed":
		return Constant(params[0]), nil
	case "exp", "exponential":
		if params[0] < 0 {
			return nil, fmt.Errorf("%w: negative mean in %q", ErrInvalid, s)
		}
		return Exponential(params[0]), nil
	case "lognormal":
		if params[0] < 0 || params[1] < 0 {
			return nil, fmt.Errorf("%w: negative parameter in %q", ErrInvalid, s)
		}
		return LogNormalFromMeanSD(params[0], params[1]), nil
	case "gamma":
		if params[0] < 0 || params[1] < 0 {
			return nil, fmt.Errorf("%w: negative parameter in %q", ErrInvalid, s)
		}
		return GammaFromMeanSD(params[0], params[1]), nil
	case "normal":
		if params[1] < 0 {
			return nil, fmt.Errorf("%w: negative standard deviation in %q", ErrInvalid, s)
		}
		if params[1] == 0 {
			return Constant(params[0]), nil
		}
		return named{distuv.Normal{Mu: params[0], Sigma: params[1]}, text("normal", params...)}, nil
	case "uniform":
		if params[1] < params[0] {
			return nil, fmt.Errorf("%w: upper bound below lower bound in %q", ErrInvalid, s)
		}
		if params[1] == params[0] {
			return Constant(params[0]), nil
		}
		return named{distuv.Uniform{Min: params[0], Max: params[1]}, text("uniform", params...)}, nil
	default:
		// triangle(a;c;b) with mode c, following the usual textual order.
		a, c, b := params[0], params[1], params[2]
		if !(a <= c && c <= b) || a == b {
			return nil, fmt.Errorf("%w: expected a <= c <= b with a < b in %q", ErrInvalid, s)
		}
		return named{distuv.NewTriangle(a, b, c, nil), text("triangle", params...)}, nil
	}
}

// MustParse is like Parse but panics on error. Intended for defaults and
// tests.
func MustParse(s string) Distribution {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func parseParams(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite parameter %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func text(name string, params ...float64) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = formatFloat(p)
	}
	return name + "(" + strings.Join(parts, ";") + ")"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
