// Package power holds the data model of the power calculator: declarative
// test specs, the raw input bag, and the per-request derived
// values (design, sweep, result table, report record).
package power

import (
	"fmt"

	"trialpower/domain/core"
)

// ParameterKind tells the presentation layer which control to render.
type ParameterKind string

const (
	KindSlider  ParameterKind = "slider"
	KindNumeric ParameterKind = "numeric"
	KindChoice  ParameterKind = "choice"
)

// PowerRef names the power routine family a test is computed with.
type PowerRef string

const (
	RefTwoSampleT    PowerRef = "t.two_sample"
	RefPairedT       PowerRef = "t.paired"
	RefOneSampleT    PowerRef = "t.one_sample"
	RefTwoProportion PowerRef = "p.two_sample"
	RefCorrelation   PowerRef = "r.correlation"
)

// TwoGroup reports whether the routine takes n1 and n2.
func (r PowerRef) TwoGroup() bool {
	return r == RefTwoSampleT || r == RefTwoProportion
}

// Bounds is a closed numeric interval.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether x lies inside the interval.
func (b Bounds) Contains(x float64) bool {
	return x >= b.Min && x <= b.Max
}

// Condition shows a parameter only when another choice parameter has a value.
type Condition struct {
	Parameter string `json:"parameter"`
	Equals    string `json:"equals"`
}

// ParameterSpec declares one user-facing input.
type ParameterSpec struct {
	Name          string        `json:"name"`
	Label         string        `json:"label"`
	Kind          ParameterKind `json:"kind"`
	Bounds        Bounds        `json:"bounds"`
	Default       float64       `json:"default"`
	Step          float64       `json:"step,omitempty"`
	Choices       []string      `json:"choices,omitempty"`
	DefaultChoice string        `json:"default_choice,omitempty"`
	ShowWhen      *Condition    `json:"show_when,omitempty"`
}

// ConvertFunc maps one raw effect value onto the standardized scale.
type ConvertFunc func(raw float64, p Params) float64

// EffectSizeSpec declares one effect size parameterization and carries its
// own conversion, so a declared method can never lack a standardizer.
type EffectSizeSpec struct {
	Method       string          `json:"method"`
	Label        string          `json:"label"`
	Standard     string          `json:"standard"`
	Bounds       Bounds          `json:"bounds"`
	DefaultRange Bounds          `json:"default_range"`
	Dependencies []ParameterSpec `json:"dependencies,omitempty"`
	Convert      ConvertFunc     `json:"-"`
}

// DesignFunc computes group sizes from resolved parameters.
type DesignFunc func(p Params) Design

// ValidateFunc returns human-readable issues; an empty result means valid.
type ValidateFunc func(p Params) []string

// TestSpec is one entry of the test catalog. Instances are built once at
// startup and never mutated.
type TestSpec struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	PowerRef      PowerRef         `json:"power_ref"`
	Parameters    []ParameterSpec  `json:"parameters"`
	EffectSizes   []EffectSizeSpec `json:"effect_sizes"`
	ComputeDesign DesignFunc       `json:"-"`
	Validate      ValidateFunc     `json:"-"`
}

// Summary is the listing view of a test.
type Summary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Methods     []string `json:"methods"`
}

// Summary returns the listing view.
func (s *TestSpec) Summary() Summary {
	return Summary{ID: s.ID, Name: s.Name, Description: s.Description, Methods: s.Methods()}
}

// Methods returns the declared effect size methods in declaration order.
func (s *TestSpec) Methods() []string {
	methods := make([]string, len(s.EffectSizes))
	for i, es := range s.EffectSizes {
		methods[i] = es.Method
	}
	return methods
}

// DefaultMethod is the first declared method.
func (s *TestSpec) DefaultMethod() string {
	if len(s.EffectSizes) == 0 {
		return ""
	}
	return s.EffectSizes[0].Method
}

// EffectSize resolves a method's spec.
func (s *TestSpec) EffectSize(method string) (*EffectSizeSpec, error) {
	for i := range s.EffectSizes {
		if s.EffectSizes[i].Method == method {
			return &s.EffectSizes[i], nil
		}
	}
	return nil, core.NewUnknownMethodError(s.ID, method)
}

// Parameter looks up a top-level parameter by name.
func (s *TestSpec) Parameter(name string) (*ParameterSpec, bool) {
	for i := range s.Parameters {
		if s.Parameters[i].Name == name {
			return &s.Parameters[i], true
		}
	}
	return nil, false
}

// Standardize converts a raw sweep for the given method. An undeclared
// method is a programming error and is returned as ErrUnknownMethod.
func (s *TestSpec) Standardize(raw []float64, method string, p Params) ([]float64, error) {
	es, err := s.EffectSize(method)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, v := range raw {
		out[i] = es.Convert(v, p)
	}
	return out, nil
}

// Check verifies the structural invariants of a test spec. A failure
// means the catalog is broken, so callers treat it as fatal.
func (s *TestSpec) Check() error {
	if s.ID == "" {
		return core.NewConfigurationError(s.ID, "empty id")
	}
	if s.ComputeDesign == nil {
		return fmt.Errorf("%w: test %q has no design calculator", core.ErrMissingCallback, s.ID)
	}
	if s.Validate == nil {
		return fmt.Errorf("%w: test %q has no validator", core.ErrMissingCallback, s.ID)
	}
	if len(s.EffectSizes) == 0 {
		return core.NewConfigurationError(s.ID, "no effect size methods declared")
	}

	names := make(map[string]*ParameterSpec, len(s.Parameters))
	for i := range s.Parameters {
		p := &s.Parameters[i]
		if _, dup := names[p.Name]; dup {
			return core.NewConfigurationError(s.ID, fmt.Sprintf("duplicate parameter %q", p.Name))
		}
		if err := checkParameter(s.ID, p); err != nil {
			return err
		}
		names[p.Name] = p
	}

	seen := make(map[string]bool, len(s.EffectSizes))
	for i := range s.EffectSizes {
		es := &s.EffectSizes[i]
		if seen[es.Method] {
			return core.NewConfigurationError(s.ID, fmt.Sprintf("duplicate method %q", es.Method))
		}
		seen[es.Method] = true
		if es.Convert == nil {
			return fmt.Errorf("%w: test %q method %q has no conversion", core.ErrMissingCallback, s.ID, es.Method)
		}
		if es.DefaultRange.Min > es.DefaultRange.Max ||
			!es.Bounds.Contains(es.DefaultRange.Min) || !es.Bounds.Contains(es.DefaultRange.Max) {
			return core.NewConfigurationError(s.ID, fmt.Sprintf("method %q default range outside bounds", es.Method))
		}
		for j := range es.Dependencies {
			dep := &es.Dependencies[j]
			if err := checkParameter(s.ID, dep); err != nil {
				return err
			}
			if prev, ok := names[dep.Name]; ok && prev.Kind == KindChoice {
				return core.NewConfigurationError(s.ID, fmt.Sprintf("dependency %q shadows a choice parameter", dep.Name))
			}
		}
	}

	for _, p := range s.Parameters {
		if p.ShowWhen == nil {
			continue
		}
		ref, ok := names[p.ShowWhen.Parameter]
		if !ok || ref.Kind != KindChoice {
			return core.NewConfigurationError(s.ID, fmt.Sprintf("parameter %q shown on unknown choice %q", p.Name, p.ShowWhen.Parameter))
		}
	}

	if method, ok := names[KeyEffectMethod]; ok {
		for _, m := range method.Choices {
			if !seen[m] {
				return core.NewConfigurationError(s.ID, fmt.Sprintf("effect method choice %q has no spec", m))
			}
		}
	}
	return nil
}

func checkParameter(testID string, p *ParameterSpec) error {
	if p.Name == "" {
		return core.NewConfigurationError(testID, "parameter with empty name")
	}
	switch p.Kind {
	case KindChoice:
		if len(p.Choices) == 0 {
			return core.NewConfigurationError(testID, fmt.Sprintf("choice %q has no options", p.Name))
		}
		for _, c := range p.Choices {
			if c == p.DefaultChoice {
				return nil
			}
		}
		return core.NewConfigurationError(testID, fmt.Sprintf("choice %q default %q not offered", p.Name, p.DefaultChoice))
	case KindSlider, KindNumeric:
		if !p.Bounds.Contains(p.Default) {
			return core.NewConfigurationError(testID, fmt.Sprintf("parameter %q default outside bounds", p.Name))
		}
		return nil
	default:
		return core.NewConfigurationError(testID, fmt.Sprintf("parameter %q has unknown kind %q", p.Name, p.Kind))
	}
}
