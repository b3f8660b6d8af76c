package registry

import (
	"trialpower/domain/effectsize"
	"trialpower/domain/power"
)

const maxD = MAX_ABS_STANDARDIZED_ES

func cohensDMethod() power.EffectSizeSpec {
	return power.EffectSizeSpec{
		Method:       MethodCohensD,
		Label:        "Cohen's d",
		Standard:     "d",
		Bounds:       power.Bounds{Min: -maxD, Max: maxD},
		DefaultRange: power.Bounds{Min: 0.2, Max: 1.0},
		Convert:      func(raw float64, _ power.Params) float64 { return effectsize.CohensD(raw) },
	}
}

func percentReductionMethod(sdLabel string) power.EffectSizeSpec {
	return power.EffectSizeSpec{
		Method:       MethodPercentReduction,
		Label:        "Reduction as a fraction of the reference value",
		Standard:     "d",
		Bounds:       power.Bounds{Min: -1, Max: 1},
		DefaultRange: power.Bounds{Min: 0.05, Max: 0.25},
		Dependencies: []power.ParameterSpec{referenceValue("Reference group mean"), referenceSD(sdLabel)},
		Convert: func(raw float64, p power.Params) float64 {
			return effectsize.PercentReductionToD(raw, p.Number(KeyReferenceValue), p.Number(KeyReferenceSD))
		},
	}
}

func differenceMethod(sdLabel string) power.EffectSizeSpec {
	return power.EffectSizeSpec{
		Method:       MethodDifference,
		Label:        "Mean difference",
		Standard:     "d",
		Bounds:       power.Bounds{Min: -1e6, Max: 1e6},
		DefaultRange: power.Bounds{Min: 4, Max: 20},
		Dependencies: []power.ParameterSpec{referenceSD(sdLabel)},
		Convert: func(raw float64, p power.Params) float64 {
			return effectsize.DifferenceToD(raw, p.Number(KeyReferenceSD))
		},
	}
}

// activeChangeMethod sweeps the expected treatment-arm mean. d is positive
// when the active mean is below the reference, i.e. on a lower-is-better
// outcome scale.
func activeChangeMethod(sdLabel string) power.EffectSizeSpec {
	return power.EffectSizeSpec{
		Method:       MethodActiveChange,
		Label:        "Treatment group mean",
		Standard:     "d",
		Bounds:       power.Bounds{Min: -1e6, Max: 1e6},
		DefaultRange: power.Bounds{Min: 80, Max: 96},
		Dependencies: []power.ParameterSpec{referenceValue("Reference group mean"), referenceSD(sdLabel)},
		Convert: func(raw float64, p power.Params) float64 {
			return effectsize.ActiveChangeToD(raw, p.Number(KeyReferenceValue), p.Number(KeyReferenceSD))
		},
	}
}

// TwoSampleT is the independent two-sample t-test with allocation and attrition.
func TwoSampleT() *power.TestSpec {
	spec := &power.TestSpec{
		ID:          TwoSampleTID,
		Name:        "Two-sample t-test",
		Description: "Compares means of two independent arms; power uses completer sizes after dropout and drop-in.",
		PowerRef:    power.RefTwoSampleT,
		EffectSizes: []power.EffectSizeSpec{
			cohensDMethod(),
			percentReductionMethod("Pooled standard deviation"),
			differenceMethod("Pooled standard deviation"),
			activeChangeMethod("Pooled standard deviation"),
		},
		ComputeDesign: func(p power.Params) power.Design {
			return power.NewTwoGroupDesign(p.Number(KeySampleSize), allocationRatio(p), p.Number(KeyDropout)+p.Number(KeyDropin))
		},
		Validate: validator(append([]check{checkSampleSize(0), checkAttrition, checkAllocation}, commonChecks()...)...),
	}
	own := []power.ParameterSpec{sampleSizeParam("Total sample size", 2, DEFAULT_TOTAL_N, 2)}
	own = append(own, allocationParams()...)
	own = append(own, attritionParams()...)
	return assemble(spec, own...)
}

// PairedT is the paired t-test; n counts pairs and d is the standardized
// mean of within-pair differences.
func PairedT() *power.TestSpec {
	spec := &power.TestSpec{
		ID:          PairedTID,
		Name:        "Paired t-test",
		Description: "Tests the mean within-pair difference of matched or pre/post measurements.",
		PowerRef:    power.RefPairedT,
		EffectSizes: []power.EffectSizeSpec{
			cohensDMethod(),
			differenceMethod("SD of paired differences"),
			percentReductionMethod("SD of paired differences"),
			activeChangeMethod("SD of paired differences"),
		},
		ComputeDesign: singleGroupDesign,
		Validate:      validator(append([]check{checkSampleSize(0)}, commonChecks()...)...),
	}
	return assemble(spec, sampleSizeParam("Number of pairs", 2, DEFAULT_SINGLE_N, 1))
}

// OneSampleT tests a single mean against a reference value.
func OneSampleT() *power.TestSpec {
	spec := &power.TestSpec{
		ID:          OneSampleTID,
		Name:        "One-sample t-test",
		Description: "Tests whether a single group mean differs from a fixed reference value.",
		PowerRef:    power.RefOneSampleT,
		EffectSizes: []power.EffectSizeSpec{
			cohensDMethod(),
			differenceMethod("Standard deviation"),
		},
		ComputeDesign: singleGroupDesign,
		Validate:      validator(append([]check{checkSampleSize(0)}, commonChecks()...)...),
	}
	return assemble(spec, sampleSizeParam("Sample size", 2, DEFAULT_SINGLE_N, 1))
}

func singleGroupDesign(p power.Params) power.Design {
	return power.NewSingleGroupDesign(p.Number(KeySampleSize))
}

func allocationRatio(p power.Params) float64 {
	if p.Choice(KeyAllocation) == AllocationRatio {
		return p.Number(KeyAllocationRatio)
	}
	return 1
}
