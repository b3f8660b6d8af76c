package registry

import (
	"trialpower/domain/power"
)

func sampleSizeParam(label string, min, def, step float64) power.ParameterSpec {
	return power.ParameterSpec{
		Name:    KeySampleSize,
		Label:   label,
		Kind:    power.KindSlider,
		Bounds:  power.Bounds{Min: min, Max: MAX_SAMPLE_SIZE},
		Default: def,
		Step:    step,
	}
}

func allocationParams() []power.ParameterSpec {
	return []power.ParameterSpec{
		{
			Name:          KeyAllocation,
			Label:         "Allocation",
			Kind:          power.KindChoice,
			Choices:       []string{AllocationEqual, AllocationRatio},
			DefaultChoice: AllocationEqual,
		},
		{
			Name:     KeyAllocationRatio,
			Label:    "Allocation ratio (treatment:control)",
			Kind:     power.KindNumeric,
			Bounds:   power.Bounds{Min: 0.1, Max: MAX_ALLOCATION_RATIO},
			Default:  1,
			Step:     0.1,
			ShowWhen: &power.Condition{Parameter: KeyAllocation, Equals: AllocationRatio},
		},
	}
}

func attritionParams() []power.ParameterSpec {
	return []power.ParameterSpec{
		{Name: KeyDropout, Label: "Dropout rate", Kind: power.KindSlider, Bounds: power.Bounds{Min: 0, Max: 0.9}, Default: 0, Step: 0.01},
		{Name: KeyDropin, Label: "Drop-in rate", Kind: power.KindSlider, Bounds: power.Bounds{Min: 0, Max: 0.9}, Default: 0, Step: 0.01},
	}
}

func testingParams() []power.ParameterSpec {
	return []power.ParameterSpec{
		{
			Name:    power.KeyAlpha,
			Label:   "Significance level",
			Kind:    power.KindSlider,
			Bounds:  power.Bounds{Min: 0.001, Max: 0.2},
			Default: DEFAULT_ALPHA,
			Step:    0.001,
		},
		{
			Name:          power.KeySided,
			Label:         "Sides",
			Kind:          power.KindChoice,
			Choices:       []string{power.SidedTwo, power.SidedOne},
			DefaultChoice: power.SidedTwo,
		},
		{
			Name:    power.KeyTargetPower,
			Label:   "Target power",
			Kind:    power.KindSlider,
			Bounds:  power.Bounds{Min: 0.5, Max: 0.99},
			Default: DEFAULT_TARGET_POWER,
			Step:    0.01,
		},
	}
}

func methodParam(methods []power.EffectSizeSpec) power.ParameterSpec {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.Method
	}
	return power.ParameterSpec{
		Name:          power.KeyEffectMethod,
		Label:         "Effect size parameterization",
		Kind:          power.KindChoice,
		Choices:       names,
		DefaultChoice: names[0],
	}
}

func referenceSD(label string) power.ParameterSpec {
	return power.ParameterSpec{
		Name:    KeyReferenceSD,
		Label:   label,
		Kind:    power.KindNumeric,
		Bounds:  power.Bounds{Min: 0, Max: 1e6},
		Default: DEFAULT_REFERENCE_SD,
	}
}

func referenceValue(label string) power.ParameterSpec {
	return power.ParameterSpec{
		Name:    KeyReferenceValue,
		Label:   label,
		Kind:    power.KindNumeric,
		Bounds:  power.Bounds{Min: -1e6, Max: 1e6},
		Default: DEFAULT_REFERENCE_VALUE,
	}
}

func baseline() power.ParameterSpec {
	return power.ParameterSpec{
		Name:    KeyBaseline,
		Label:   "Control group proportion",
		Kind:    power.KindSlider,
		Bounds:  power.Bounds{Min: 0.001, Max: 0.999},
		Default: DEFAULT_BASELINE,
		Step:    0.01,
	}
}

// assemble appends the shared testing parameters and the method selector so
// every spec declares the keys the pipeline reads.
func assemble(spec *power.TestSpec, own ...power.ParameterSpec) *power.TestSpec {
	params := append([]power.ParameterSpec{}, own...)
	params = append(params, testingParams()...)
	params = append(params, methodParam(spec.EffectSizes))
	spec.Parameters = params
	return spec
}
