package registry

import (
	"errors"
	"strings"
	"testing"

	"trialpower/domain/core"
	"trialpower/domain/effectsize"
	"trialpower/domain/power"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	ids := make([]string, 0, r.Len())
	for _, s := range r.List() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{TwoSampleTID, PairedTID, OneSampleTID, TwoProportionID, CorrelationID}, ids)
	assert.Len(t, r.Summaries(), 5)
}

func TestGet_UnknownTest(t *testing.T) {
	r := MustDefault()
	_, err := r.Get("anova")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnknownTest))
}

func TestEveryMethodHasSpecAndStandardizes(t *testing.T) {
	for _, s := range MustDefault().List() {
		for _, method := range s.Methods() {
			t.Run(s.ID+"/"+method, func(t *testing.T) {
				es, err := s.EffectSize(method)
				require.NoError(t, err)

				p := s.Resolve(power.NewInputs().Choose(power.KeyEffectMethod, method))
				assert.Empty(t, s.Validate(p), "defaults must validate")

				raw := power.GenerateSweep(es.DefaultRange.Min, es.DefaultRange.Max, 4)
				std, err := s.Standardize(raw, method, p)
				require.NoError(t, err)
				require.Len(t, std, len(raw))
			})
		}
	}
}

func TestNew_RejectsBrokenSpecs(t *testing.T) {
	tests := []struct {
		name   string
		specs  func() []*power.TestSpec
		target error
	}{
		{"duplicate id", func() []*power.TestSpec { return []*power.TestSpec{PairedT(), PairedT()} }, core.ErrConfiguration},
		{"nil spec", func() []*power.TestSpec { return []*power.TestSpec{nil} }, core.ErrConfiguration},
		{"missing validator", func() []*power.TestSpec {
			s := OneSampleT()
			s.Validate = nil
			return []*power.TestSpec{s}
		}, core.ErrMissingCallback},
		{"missing alpha", func() []*power.TestSpec {
			s := OneSampleT()
			kept := s.Parameters[:0]
			for _, p := range s.Parameters {
				if p.Name != power.KeyAlpha {
					kept = append(kept, p)
				}
			}
			s.Parameters = kept
			return []*power.TestSpec{s}
		}, core.ErrConfiguration},
		{"undeclared read", func() []*power.TestSpec {
			s := OneSampleT()
			s.ComputeDesign = func(p power.Params) power.Design {
				return power.NewSingleGroupDesign(p.Number("pairs"))
			}
			return []*power.TestSpec{s}
		}, core.ErrUndeclaredParameter},
		{"design shape mismatch", func() []*power.TestSpec {
			s := OneSampleT()
			s.ComputeDesign = func(p power.Params) power.Design {
				return power.NewTwoGroupDesign(p.Number(KeySampleSize), 1, 0)
			}
			return []*power.TestSpec{s}
		}, core.ErrConfiguration},
		{"unknown routine", func() []*power.TestSpec {
			s := Correlation()
			s.PowerRef = "f.anova"
			return []*power.TestSpec{s}
		}, core.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.specs()...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestMinimalRegistryWithOneSpec(t *testing.T) {
	r, err := New(OneSampleT())
	require.NoError(t, err)
	_, err = r.Get(OneSampleTID)
	assert.NoError(t, err)
	_, err = r.Get(TwoSampleTID)
	assert.ErrorIs(t, err, core.ErrUnknownTest)
}

func TestTwoSampleDesign(t *testing.T) {
	s := TwoSampleT()

	tests := []struct {
		name   string
		inputs power.Inputs
		n1, n2 float64
		c1, c2 float64
	}{
		{"defaults", power.NewInputs(), 50, 50, 50, 50},
		{"ten percent dropout", power.NewInputs().Set(KeyDropout, 0.1), 50, 50, 45, 45},
		{"dropout plus drop-in", power.NewInputs().Set(KeyDropout, 0.1).Set(KeyDropin, 0.1), 50, 50, 40, 40},
		{"ratio ignored when equal", power.NewInputs().Set(KeyAllocationRatio, 3), 50, 50, 50, 50},
		{"two to one", power.NewInputs().Set(KeySampleSize, 150).Choose(KeyAllocation, AllocationRatio).Set(KeyAllocationRatio, 2), 100, 50, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := s.ComputeDesign(s.Resolve(tt.inputs))
			assert.Equal(t, power.TwoGroup, d.Kind)
			assert.InDelta(t, tt.n1, d.N1, 1e-9)
			assert.InDelta(t, tt.n2, d.N2, 1e-9)
			assert.InDelta(t, tt.c1, d.N1Completer, 1e-9)
			assert.InDelta(t, tt.c2, d.N2Completer, 1e-9)
		})
	}
}

func TestSingleGroupDesigns(t *testing.T) {
	for _, s := range []*power.TestSpec{PairedT(), OneSampleT(), Correlation()} {
		d := s.ComputeDesign(s.Resolve(power.NewInputs().Set(KeySampleSize, 42)))
		assert.Equal(t, power.SingleGroup, d.Kind, s.ID)
		assert.Equal(t, 42.0, d.N, s.ID)
	}
}

func TestTwoProportionIgnoresAttritionKeys(t *testing.T) {
	s := TwoProportion()
	d := s.ComputeDesign(s.Resolve(power.NewInputs().Set(KeySampleSize, 200).Set(KeyDropout, 0.5)))
	assert.Equal(t, 100.0, d.N1Completer)
	assert.Equal(t, 100.0, d.N2Completer)
}

func hasIssue(issues []string, fragment string) bool {
	for _, is := range issues {
		if strings.Contains(is, fragment) {
			return true
		}
	}
	return false
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name     string
		spec     *power.TestSpec
		inputs   power.Inputs
		fragment string
	}{
		{"negative sample size", TwoSampleT(), power.NewInputs().Set(KeySampleSize, -10), "sample size"},
		{"combined loss above 100%", TwoSampleT(), power.NewInputs().Set(KeySampleSize, 100).Set(KeyDropout, 0.6).Set(KeyDropin, 0.5), "exceeds 100%"},
		{"dropout above one", TwoSampleT(), power.NewInputs().Set(KeyDropout, 1.5), "dropout rate"},
		{"non-positive ratio", TwoSampleT(), power.NewInputs().Choose(KeyAllocation, AllocationRatio).Set(KeyAllocationRatio, 0), "allocation ratio"},
		{"alpha of one", PairedT(), power.NewInputs().Set(power.KeyAlpha, 1), "significance level"},
		{"alpha of zero", OneSampleT(), power.NewInputs().Set(power.KeyAlpha, 0), "significance level"},
		{"inverted range", OneSampleT(), power.NewInputs().Set(power.KeyEffectMin, 1).Set(power.KeyEffectMax, 0.2), "must not exceed"},
		{"range outside bounds", Correlation(), power.NewInputs().Set(power.KeyEffectMax, 1.2), "must lie within"},
		{"zero reference sd", TwoSampleT(), power.NewInputs().Choose(power.KeyEffectMethod, MethodDifference).Set(KeyReferenceSD, 0), "reference standard deviation"},
		{"baseline of one", TwoProportion(), power.NewInputs().Set(KeyBaseline, 1), "baseline proportion"},
		{"unknown method", TwoProportion(), power.NewInputs().Choose(power.KeyEffectMethod, MethodCohensD), "not available"},
		{"unknown sided", TwoSampleT(), power.NewInputs().Choose(power.KeySided, "3"), "sides must be one of"},
		{"correlation too small", Correlation(), power.NewInputs().Set(KeySampleSize, 3), "at least 4"},
		{"target power", OneSampleT(), power.NewInputs().Set(power.KeyTargetPower, 1), "target power"},
		{"alpha above declared range", PairedT(), power.NewInputs().Set(power.KeyAlpha, 0.5), "significance level must be between 0.001 and 0.2"},
		{"dropout above declared range", TwoSampleT(), power.NewInputs().Set(KeyDropout, 1), "dropout rate must be between 0 and 0.9"},
		{"sample size above declared range", OneSampleT(), power.NewInputs().Set(KeySampleSize, 6000), "sample size must be between 2 and 5000"},
		{"baseline below declared range", TwoProportion(), power.NewInputs().Set(KeyBaseline, 0.0005), "control group proportion must be between"},
		{"target power below declared range", Correlation(), power.NewInputs().Set(power.KeyTargetPower, 0.3), "target power must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.spec.Validate(tt.spec.Resolve(tt.inputs))
			assert.True(t, hasIssue(issues, tt.fragment), "expected %q in %v", tt.fragment, issues)
		})
	}
}

func TestValidation_ReferenceSDIgnoredForOtherMethods(t *testing.T) {
	s := TwoSampleT()
	issues := s.Validate(s.Resolve(power.NewInputs().Set(KeyReferenceSD, 0)))
	assert.Empty(t, issues)
}

func TestValidation_BoundsSkipHiddenAndFlaggedValues(t *testing.T) {
	s := TwoSampleT()

	hidden := power.NewInputs().Choose(KeyAllocation, AllocationEqual).Set(KeyAllocationRatio, 50)
	assert.Empty(t, s.Validate(s.Resolve(hidden)))

	shown := power.NewInputs().Choose(KeyAllocation, AllocationRatio).Set(KeyAllocationRatio, 50)
	assert.True(t, hasIssue(s.Validate(s.Resolve(shown)), "must be between 0.1 and 10"))

	issues := s.Validate(s.Resolve(power.NewInputs().Set(KeySampleSize, -10)))
	assert.Len(t, issues, 1, "issues: %v", issues)
}

func TestValidation_DefaultsSatisfyDeclaredBounds(t *testing.T) {
	for _, s := range MustDefault().List() {
		for _, m := range s.Methods() {
			in := power.NewInputs().Choose(power.KeyEffectMethod, m)
			assert.Empty(t, s.Validate(s.Resolve(in)), "%s/%s", s.ID, m)
		}
	}
}

func TestValidation_TotalLossIsAllowed(t *testing.T) {
	s := TwoSampleT()
	issues := s.Validate(s.Resolve(power.NewInputs().Set(KeyDropout, 0.6).Set(KeyDropin, 0.4)))
	assert.Empty(t, issues)
}

func TestProportionStandardization(t *testing.T) {
	s := TwoProportion()
	p := s.Resolve(power.NewInputs().Choose(power.KeyEffectMethod, MethodProportions).Set(KeyBaseline, 0.4))

	got, err := s.Standardize([]float64{0.6}, MethodProportions, p)
	require.NoError(t, err)
	assert.InDelta(t, 0.4027158, got[0], 1e-6)
	assert.InDelta(t, effectsize.CohensH(0.6, 0.4), got[0], 1e-12)
}

func TestContinuousStandardization(t *testing.T) {
	s := TwoSampleT()
	in := power.NewInputs().Set(KeyReferenceValue, 50).Set(KeyReferenceSD, 10)

	tests := []struct {
		method   string
		raw      float64
		expected float64
	}{
		{MethodCohensD, 0.4, 0.4},
		{MethodPercentReduction, 0.1, 0.5},
		{MethodDifference, 5, 0.5},
		{MethodActiveChange, 45, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			p := s.Resolve(in.Clone().Choose(power.KeyEffectMethod, tt.method))
			got, err := s.Standardize([]float64{tt.raw}, tt.method, p)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got[0], 1e-12)
		})
	}
}
