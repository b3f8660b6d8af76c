package power

import (
	"errors"
	"testing"

	"trialpower/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSpec() *TestSpec {
	return &TestSpec{
		ID:       "fake",
		Name:     "Fake test",
		PowerRef: RefOneSampleT,
		Parameters: []ParameterSpec{
			{Name: "sample_size", Label: "N", Kind: KindSlider, Bounds: Bounds{Min: 1, Max: 100}, Default: 20},
			{Name: "mode", Label: "Mode", Kind: KindChoice, Choices: []string{"a", "b"}, DefaultChoice: "a"},
			{Name: "extra", Label: "Extra", Kind: KindNumeric, Bounds: Bounds{Min: 0, Max: 10}, Default: 1,
				ShowWhen: &Condition{Parameter: "mode", Equals: "b"}},
			{Name: KeyEffectMethod, Label: "Method", Kind: KindChoice, Choices: []string{"cohens_d", "difference"}, DefaultChoice: "cohens_d"},
		},
		EffectSizes: []EffectSizeSpec{
			{
				Method:       "cohens_d",
				Bounds:       Bounds{Min: 0, Max: 3},
				DefaultRange: Bounds{Min: 0.2, Max: 1},
				Convert:      func(raw float64, _ Params) float64 { return raw },
			},
			{
				Method:       "difference",
				Bounds:       Bounds{Min: 0, Max: 50},
				DefaultRange: Bounds{Min: 1, Max: 10},
				Dependencies: []ParameterSpec{
					{Name: "reference_sd", Label: "SD", Kind: KindNumeric, Bounds: Bounds{Min: 0, Max: 100}, Default: 10},
				},
				Convert: func(raw float64, p Params) float64 { return raw / p.Number("reference_sd") },
			},
		},
		ComputeDesign: func(p Params) Design { return NewSingleGroupDesign(p.Number("sample_size")) },
		Validate:      func(Params) []string { return nil },
	}
}

func TestTestSpec_CheckAcceptsWellFormedSpec(t *testing.T) {
	require.NoError(t, fakeSpec().Check())
}

func TestTestSpec_CheckRejectsBrokenSpecs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *TestSpec)
		target error
	}{
		{"missing design", func(s *TestSpec) { s.ComputeDesign = nil }, core.ErrMissingCallback},
		{"missing validator", func(s *TestSpec) { s.Validate = nil }, core.ErrMissingCallback},
		{"missing conversion", func(s *TestSpec) { s.EffectSizes[1].Convert = nil }, core.ErrMissingCallback},
		{"no methods", func(s *TestSpec) { s.EffectSizes = nil }, core.ErrConfiguration},
		{"duplicate method", func(s *TestSpec) { s.EffectSizes[1].Method = "cohens_d" }, core.ErrConfiguration},
		{"default range outside bounds", func(s *TestSpec) { s.EffectSizes[0].DefaultRange.Max = 5 }, core.ErrConfiguration},
		{"default outside bounds", func(s *TestSpec) { s.Parameters[0].Default = 500 }, core.ErrConfiguration},
		{"choice default not offered", func(s *TestSpec) { s.Parameters[1].DefaultChoice = "z" }, core.ErrConfiguration},
		{"condition on unknown choice", func(s *TestSpec) { s.Parameters[2].ShowWhen.Parameter = "nope" }, core.ErrConfiguration},
		{"method choice without spec", func(s *TestSpec) {
			s.Parameters[3].Choices = append(s.Parameters[3].Choices, "odds_ratio")
		}, core.ErrConfiguration},
		{"duplicate parameter", func(s *TestSpec) { s.Parameters[1].Name = "sample_size" }, core.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := fakeSpec()
			tt.mutate(s)
			err := s.Check()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestTestSpec_StandardizeUsesMethodConversion(t *testing.T) {
	s := fakeSpec()
	p := s.Resolve(NewInputs().Choose(KeyEffectMethod, "difference").Set("reference_sd", 5))

	got, err := s.Standardize([]float64{5, 10}, "difference", p)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestTestSpec_StandardizeUnknownMethod(t *testing.T) {
	s := fakeSpec()
	_, err := s.Standardize([]float64{1}, "odds_ratio", s.Resolve(NewInputs()))
	assert.ErrorIs(t, err, core.ErrUnknownMethod)
}

func TestTestSpec_Summary(t *testing.T) {
	sum := fakeSpec().Summary()
	assert.Equal(t, "fake", sum.ID)
	assert.Equal(t, []string{"cohens_d", "difference"}, sum.Methods)
}
