package power

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"trialpower/domain/core"
)

// Reserved keys shared by every test. The pipeline reads these without
// knowing which test it runs, so every registered spec declares them.
const (
	KeyEffectMethod = "effect_method"
	KeyEffectMin    = "effect_min"
	KeyEffectMax    = "effect_max"
	KeyAlpha        = "alpha"
	KeySided        = "sided"
	KeyTargetPower  = "target_power"
)

// Values of the sided choice.
const (
	SidedTwo = "2"
	SidedOne = "1"
)

// Inputs is the raw bag of user-supplied values. Numeric parameters live in
// Numbers and choice parameters in Choices. Missing keys resolve to the
// declared defaults; unknown keys are carried but never read.
type Inputs struct {
	Numbers map[string]float64 `json:"numbers,omitempty"`
	Choices map[string]string  `json:"choices,omitempty"`
}

// NewInputs returns an empty bag.
func NewInputs() Inputs {
	return Inputs{Numbers: map[string]float64{}, Choices: map[string]string{}}
}

// Set stores a numeric value and returns the bag for chaining.
func (in Inputs) Set(name string, v float64) Inputs {
	if in.Numbers == nil {
		in.Numbers = map[string]float64{}
	}
	in.Numbers[name] = v
	return in
}

// Choose stores a choice value and returns the bag for chaining.
func (in Inputs) Choose(name, v string) Inputs {
	if in.Choices == nil {
		in.Choices = map[string]string{}
	}
	in.Choices[name] = v
	return in
}

// Clone deep-copies the bag.
func (in Inputs) Clone() Inputs {
	out := NewInputs()
	for k, v := range in.Numbers {
		out.Numbers[k] = v
	}
	for k, v := range in.Choices {
		out.Choices[k] = v
	}
	return out
}

// ParseInputs types a flat string map against the test spec: declared choice
// parameters stay strings, everything else must parse as a number. Keys the
// spec does not declare are kept as numbers when they parse and as choices
// otherwise.
func (s *TestSpec) ParseInputs(raw map[string]string) (Inputs, error) {
	in := NewInputs()
	for k, v := range raw {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" {
			continue
		}
		if decl := s.lookup(nil, k); decl != nil {
			if decl.Kind == KindChoice {
				in.Choices[k] = v
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Inputs{}, fmt.Errorf("parameter %s: %q is not a number", k, v)
			}
			in.Numbers[k] = f
			continue
		}
		if k == KeyEffectMin || k == KeyEffectMax {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return Inputs{}, fmt.Errorf("parameter %s: %q is not a number", k, v)
			}
			in.Numbers[k] = f
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			in.Numbers[k] = f
		} else {
			in.Choices[k] = v
		}
	}
	return in, nil
}

// Params is the resolved view of Inputs that callbacks read from. Reading a
// name the test spec does not declare panics, because it means a callback and its
// declarations have drifted apart.
type Params struct {
	spec       *TestSpec
	method     *EffectSizeSpec
	methodName string
	in         Inputs
}

// Resolve binds inputs to the test spec and picks the active effect size method,
// defaulting to the first declared one.
func (s *TestSpec) Resolve(in Inputs) Params {
	name := s.DefaultMethod()
	if c := in.Choices[KeyEffectMethod]; c != "" {
		name = c
	}
	es, _ := s.EffectSize(name)
	return Params{spec: s, method: es, methodName: name, in: in}
}

// Spec is the test spec the inputs are bound to.
func (p Params) Spec() *TestSpec { return p.spec }

// Method is the requested method name, which may be undeclared.
func (p Params) Method() string { return p.methodName }

// EffectSpec is the active method's spec, if it is declared.
func (p Params) EffectSpec() (*EffectSizeSpec, bool) { return p.method, p.method != nil }

// Inputs returns the underlying raw bag.
func (p Params) Inputs() Inputs { return p.in }

// Supplied reports whether the caller provided a value for name.
func (p Params) Supplied(name string) bool {
	if _, ok := p.in.Numbers[name]; ok {
		return true
	}
	_, ok := p.in.Choices[name]
	return ok
}

// Number resolves a numeric parameter or active-method dependency.
func (p Params) Number(name string) float64 {
	switch name {
	case KeyEffectMin:
		return p.EffectRange().Min
	case KeyEffectMax:
		return p.EffectRange().Max
	}
	decl := p.spec.lookup(p.method, name)
	if decl == nil {
		panic(fmt.Errorf("%w: test %q reads %q", core.ErrUndeclaredParameter, p.spec.ID, name))
	}
	if v, ok := p.in.Numbers[name]; ok {
		return v
	}
	return decl.Default
}

// Choice resolves a choice parameter.
func (p Params) Choice(name string) string {
	decl := p.spec.lookup(p.method, name)
	if decl == nil || decl.Kind != KindChoice {
		panic(fmt.Errorf("%w: test %q reads choice %q", core.ErrUndeclaredParameter, p.spec.ID, name))
	}
	if v, ok := p.in.Choices[name]; ok && v != "" {
		return v
	}
	return decl.DefaultChoice
}

// Alternative maps the sided choice onto the routine alternative.
func (p Params) Alternative() Alternative {
	if p.Choice(KeySided) == SidedOne {
		return OneSided
	}
	return TwoSided
}

// EffectRange is the raw sweep range: caller values first, then the
// method's default range.
func (p Params) EffectRange() Bounds {
	var r Bounds
	if p.method != nil {
		r = p.method.DefaultRange
	}
	if v, ok := p.in.Numbers[KeyEffectMin]; ok {
		r.Min = v
	}
	if v, ok := p.in.Numbers[KeyEffectMax]; ok {
		r.Max = v
	}
	return r
}

// Dependencies resolves every dependency the active method declares.
func (p Params) Dependencies() map[string]float64 {
	deps := map[string]float64{}
	if p.method == nil {
		return deps
	}
	for _, d := range p.method.Dependencies {
		deps[d.Name] = p.Number(d.Name)
	}
	return deps
}

// Visible reports whether a declared parameter's display condition holds.
func (p Params) Visible(ps ParameterSpec) bool {
	if ps.ShowWhen == nil {
		return true
	}
	return p.Choice(ps.ShowWhen.Parameter) == ps.ShowWhen.Equals
}

// ParameterValue is one echoed, resolved parameter.
type ParameterValue struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Echo lists every visible parameter and active dependency with its
// resolved value, in declaration order.
func (p Params) Echo() []ParameterValue {
	var out []ParameterValue
	for _, ps := range p.spec.Parameters {
		if !p.Visible(ps) {
			continue
		}
		out = append(out, ParameterValue{Name: ps.Name, Label: ps.Label, Value: p.format(ps)})
	}
	if p.method != nil {
		for _, ps := range p.method.Dependencies {
			out = append(out, ParameterValue{Name: ps.Name, Label: ps.Label, Value: p.format(ps)})
		}
	}
	return out
}

// UnknownKeys lists supplied keys the test spec never declares, sorted.
func (p Params) UnknownKeys() []string {
	var out []string
	check := func(k string) {
		if k == KeyEffectMin || k == KeyEffectMax {
			return
		}
		if p.spec.lookup(nil, k) != nil {
			return
		}
		for _, es := range p.spec.EffectSizes {
			for _, d := range es.Dependencies {
				if d.Name == k {
					return
				}
			}
		}
		out = append(out, k)
	}
	for k := range p.in.Numbers {
		check(k)
	}
	for k := range p.in.Choices {
		check(k)
	}
	sort.Strings(out)
	return out
}

func (p Params) format(ps ParameterSpec) string {
	if ps.Kind == KindChoice {
		return p.Choice(ps.Name)
	}
	return strconv.FormatFloat(p.Number(ps.Name), 'g', -1, 64)
}

// lookup finds a declaration among the active method's dependencies, then
// among the top-level parameters. When method is nil every method's
// dependencies are searched.
func (s *TestSpec) lookup(method *EffectSizeSpec, name string) *ParameterSpec {
	if method != nil {
		for i := range method.Dependencies {
			if method.Dependencies[i].Name == name {
				return &method.Dependencies[i]
			}
		}
	} else {
		for i := range s.EffectSizes {
			deps := s.EffectSizes[i].Dependencies
			for j := range deps {
				if deps[j].Name == name {
					return &deps[j]
				}
			}
		}
	}
	if ps, ok := s.Parameter(name); ok {
		return ps
	}
	return nil
}
