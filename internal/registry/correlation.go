package registry

import (
	"trialpower/domain/effectsize"
	"trialpower/domain/power"
)

// Correlation tests a Pearson correlation against zero.
func Correlation() *power.TestSpec {
	spec := &power.TestSpec{
		ID:          CorrelationID,
		Name:        "Correlation test",
		Description: "Tests whether a Pearson correlation differs from zero.",
		PowerRef:    power.RefCorrelation,
		EffectSizes: []power.EffectSizeSpec{
			{
				Method:       MethodCorrelation,
				Label:        "Correlation coefficient r",
				Standard:     "r",
				Bounds:       power.Bounds{Min: -MAX_ABS_CORRELATION, Max: MAX_ABS_CORRELATION},
				DefaultRange: power.Bounds{Min: 0.1, Max: 0.5},
				Convert:      func(raw float64, _ power.Params) float64 { return effectsize.Correlation(raw) },
			},
			{
				Method:       MethodRSquared,
				Label:        "Variance explained (R squared)",
				Standard:     "r",
				Bounds:       power.Bounds{Min: 0, Max: MAX_ABS_CORRELATION * MAX_ABS_CORRELATION},
				DefaultRange: power.Bounds{Min: 0.01, Max: 0.25},
				Convert:      func(raw float64, _ power.Params) float64 { return effectsize.RSquaredToR(raw) },
			},
		},
		ComputeDesign: singleGroupDesign,
		Validate:      validator(append([]check{checkSampleSize(MIN_CORRELATION_N)}, commonChecks()...)...),
	}
	return assemble(spec, sampleSizeParam("Number of observations", MIN_CORRELATION_N, 50, 1))
}
