package ports

import (
	"trialpower/domain/power"
)

// Outcome is the named result fields a power routine returns. Libraries
// disagree on naming, so readers look for "power" first and fall back to
// known aliases.
type Outcome map[string]float64

// PowerLibrary is the numerical boundary. Two-group routines take n1 and
// n2; one-sample, paired and correlation routines take n. sigLevel is the
// per-tail significance level already adjusted for sidedness.
type PowerLibrary interface {
	TwoGroup(ref power.PowerRef, effectSize, sigLevel float64, alt power.Alternative, n1, n2 float64) (Outcome, error)
	OneGroup(ref power.PowerRef, effectSize, sigLevel float64, alt power.Alternative, n float64) (Outcome, error)
}
