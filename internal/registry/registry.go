// Package registry holds the catalog of supported hypothesis tests. The
// catalog is built once at startup, checked, and read-only afterwards, so it
// can be shared across goroutines without locking.
package registry

import (
	"fmt"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/ports"
)

// Registry is an immutable, id-keyed catalog of test specifications.
type Registry struct {
	order []string
	specs map[string]*power.TestSpec
}

var _ ports.Catalog = (*Registry)(nil)

// New checks every spec and indexes it by id. Any failure is a
// configuration error.
func New(specs ...*power.TestSpec) (*Registry, error) {
	r := &Registry{specs: make(map[string]*power.TestSpec, len(specs))}
	for _, s := range specs {
		if s == nil {
			return nil, fmt.Errorf("%w: nil specification", core.ErrConfiguration)
		}
		if err := s.Check(); err != nil {
			return nil, err
		}
		if err := checkPipelineContract(s); err != nil {
			return nil, err
		}
		if _, dup := r.specs[s.ID]; dup {
			return nil, core.NewConfigurationError(s.ID, "registered twice")
		}
		r.specs[s.ID] = s
		r.order = append(r.order, s.ID)
	}
	return r, nil
}

// Builtin returns fresh copies of the five supported specifications.
func Builtin() []*power.TestSpec {
	return []*power.TestSpec{TwoSampleT(), PairedT(), OneSampleT(), TwoProportion(), Correlation()}
}

// Default builds the registry of built-in tests.
func Default() (*Registry, error) {
	return New(Builtin()...)
}

// MustDefault is Default for process start-up; a broken catalog panics.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// List returns specifications in registration order.
func (r *Registry) List() []*power.TestSpec {
	out := make([]*power.TestSpec, len(r.order))
	for i, id := range r.order {
		out[i] = r.specs[id]
	}
	return out
}

// Summaries returns the listing view of every test.
func (r *Registry) Summaries() []power.Summary {
	out := make([]power.Summary, len(r.order))
	for i, id := range r.order {
		out[i] = r.specs[id].Summary()
	}
	return out
}

// Get looks up a specification. Unknown ids wrap core.ErrUnknownTest.
func (r *Registry) Get(id string) (*power.TestSpec, error) {
	s, ok := r.specs[id]
	if !ok {
		return nil, core.NewUnknownTestError(id)
	}
	return s, nil
}

// Len is the number of registered tests.
func (r *Registry) Len() int {
	return len(r.order)
}

// checkPipelineContract verifies the keys the generic pipeline reads are
// declared, and that default inputs produce a design of the right shape.
func checkPipelineContract(s *power.TestSpec) error {
	required := map[string]power.ParameterKind{
		power.KeyAlpha:        power.KindSlider,
		power.KeySided:        power.KindChoice,
		power.KeyTargetPower:  power.KindSlider,
		power.KeyEffectMethod: power.KindChoice,
	}
	for name, kind := range required {
		ps, ok := s.Parameter(name)
		if !ok {
			return core.NewConfigurationError(s.ID, fmt.Sprintf("missing parameter %q", name))
		}
		if (kind == power.KindChoice) != (ps.Kind == power.KindChoice) {
			return core.NewConfigurationError(s.ID, fmt.Sprintf("parameter %q has kind %q", name, ps.Kind))
		}
	}

	switch s.PowerRef {
	case power.RefTwoSampleT, power.RefTwoProportion, power.RefOneSampleT, power.RefPairedT, power.RefCorrelation:
	default:
		return core.NewConfigurationError(s.ID, fmt.Sprintf("unknown power routine %q", s.PowerRef))
	}

	// Exercising each method with defaults surfaces undeclared reads now
	// rather than on the first request.
	for _, method := range s.Methods() {
		if err := dryRun(s, method); err != nil {
			return err
		}
	}
	return nil
}

func dryRun(s *power.TestSpec, method string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = e
				return
			}
			err = core.NewConfigurationError(s.ID, fmt.Sprint(rec))
		}
	}()

	p := s.Resolve(power.NewInputs().Choose(power.KeyEffectMethod, method))
	_ = s.Validate(p)
	d := s.ComputeDesign(p)
	if err := d.Check(s.ID); err != nil {
		return err
	}
	if (d.Kind == power.TwoGroup) != s.PowerRef.TwoGroup() {
		return core.NewConfigurationError(s.ID, fmt.Sprintf("design kind %q does not match routine %q", d.Kind, s.PowerRef))
	}
	r := p.EffectRange()
	if _, err := s.Standardize([]float64{r.Min, r.Max}, method, p); err != nil {
		return err
	}
	return nil
}
