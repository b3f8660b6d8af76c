package app

import (
	"fmt"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/ports"
)

// powerFields are the outcome names a probability may be reported under,
// in lookup order.
var powerFields = []string{"power", "pwr", "probability"}

// PowerAdapter turns the pipeline's uniform call into the library's
// two-group or one-group call shape.
type PowerAdapter struct {
	lib ports.PowerLibrary
}

// NewPowerAdapter wraps a power library
func NewPowerAdapter(lib ports.PowerLibrary) *PowerAdapter {
	return &PowerAdapter{lib: lib}
}

// Power evaluates one sweep point. sigLevel is the per-tail level. The call
// shape follows the populated design fields; a design whose shape disagrees
// with the routine is a configuration error, anything the library rejects
// is returned as is for the caller to record as missing.
func (a *PowerAdapter) Power(ref power.PowerRef, d power.Design, effectSize, sigLevel float64, alt power.Alternative) (power.Prob, error) {
	var (
		out ports.Outcome
		err error
	)
	switch d.Kind {
	case power.TwoGroup:
		if !ref.TwoGroup() {
			return power.Missing(), fmt.Errorf("%w: routine %q given a two-group design", core.ErrConfiguration, ref)
		}
		n1, n2 := d.AnalysisSizes()
		out, err = a.lib.TwoGroup(ref, effectSize, sigLevel, alt, n1, n2)
	case power.SingleGroup:
		if ref.TwoGroup() {
			return power.Missing(), fmt.Errorf("%w: routine %q given a single-group design", core.ErrConfiguration, ref)
		}
		n, _ := d.AnalysisSizes()
		out, err = a.lib.OneGroup(ref, effectSize, sigLevel, alt, n)
	default:
		return power.Missing(), fmt.Errorf("%w: design kind %q", core.ErrConfiguration, d.Kind)
	}
	if err != nil {
		return power.Missing(), err
	}
	return ExtractPower(out), nil
}

// ExtractPower reads the probability from the first known field present.
// An outcome carrying none of them is missing.
func ExtractPower(out ports.Outcome) power.Prob {
	for _, k := range powerFields {
		if v, ok := out[k]; ok {
			return power.Known(v)
		}
	}
	return power.Missing()
}
