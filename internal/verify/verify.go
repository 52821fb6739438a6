// Package verify holds hand-check recomputations of the capacity arithmetic.
// Each check substitutes its parameters step by step, records every
// intermediate value and compares the result with an independently
// computed expectation.
package verify

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
)

// Param is a named numeric input with its default.
type Param struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit,omitempty"`
	Default     float64 `json:"default"`
	Description string  `json:"description,omitempty"`
}

// Step is one labelled substitution.
type Step struct {
	Label   string  `json:"label"`
	Formula string  `json:"formula,omitempty"`
	Value   float64 `json:"value"`
	Unit    string  `json:"unit,omitempty"`
}

// Result is the outcome of one check.
type Result struct {
	Check     string             `json:"check"`
	Params    map[string]float64 `json:"params"`
	Steps     []Step             `json:"steps"`
	Value     float64            `json:"value"`
	Expected  float64            `json:"expected"`
	Tolerance float64            `json:"tolerance"`
	Decimals  int                `json:"decimals,omitempty"` // >0: compare after rounding
	Unit      string             `json:"unit,omitempty"`
	Passed    bool               `json:"passed"`
}

// Check is a registered verification.
type Check struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`

	run func(p map[string]float64) (*Result, error)
}

// Defaults returns the check's default parameters.
func (c Check) Defaults() map[string]float64 {
	out := make(map[string]float64, len(c.Params))
	for _, p := range c.Params {
		out[p.Name] = p.Default
	}
	return out
}

// Run executes the check with overrides applied over the defaults.
// Unknown override names are rejected.
func (c Check) Run(overrides map[string]float64) (*Result, error) {
	params := c.Defaults()
	for k, v := range overrides {
		if _, ok := params[k]; !ok {
			return nil, fmt.Errorf("check %s: unknown parameter %q", c.Name, k)
		}
		params[k] = v
	}
	res, err := c.run(params)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", c.Name, err)
	}
	res.Check = c.Name
	res.Params = params
	res.Passed = compare(res)
	return res, nil
}

func compare(r *Result) bool {
	if r.Decimals > 0 {
		return scalar.Round(r.Value, r.Decimals) == scalar.Round(r.Expected, r.Decimals)
	}
	return scalar.EqualWithinAbs(r.Value, r.Expected, r.Tolerance)
}

var registry = map[string]Check{}

func register(c Check) {
	if _, dup := registry[c.Name]; dup {
		panic("verify: duplicate check " + c.Name)
	}
	registry[c.Name] = c
}

// Checks lists the registered checks by name.
func Checks() []Check {
	out := make([]Check, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a check by name.
func Lookup(name string) (Check, bool) {
	c, ok := registry[name]
	return c, ok
}

// RunAll runs every check with its defaults.
func RunAll() ([]*Result, error) {
	var out []*Result
	for _, c := range Checks() {
		r, err := c.Run(nil)
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Report prints the steps and the verdict of r.
func Report(w io.Writer, r *Result) {
	fmt.Fprintf(w, "== %s ==\n", r.Check)
	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-16s %g\n", k, r.Params[k])
	}
	for _, s := range r.Steps {
		line := fmt.Sprintf("  %-28s = %s", s.Label, fmtValue(s.Value, r.Decimals))
		if s.Unit != "" {
			line += " " + s.Unit
		}
		if s.Formula != "" {
			line += "   (" + s.Formula + ")"
		}
		fmt.Fprintln(w, line)
	}
	verdict := "PASS"
	if !r.Passed {
		verdict = "FAIL"
	}
	fmt.Fprintf(w, "  result %s %s, expected %s %s: %s\n",
		fmtValue(r.Value, r.Decimals), r.Unit, fmtValue(r.Expected, r.Decimals), r.Unit, verdict)
}

func fmtValue(v float64, decimals int) string {
	if decimals > 0 {
		return fmt.Sprintf("%.*f", decimals, v)
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
}
