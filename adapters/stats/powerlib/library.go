// Package powerlib is the gonum-backed numerical power library: noncentral-t
// power for one-sample, paired and two-sample t-tests, the arcsine
// normal approximation for two proportions, and the Fisher-z approximation
// for correlations.
//
// Every routine takes a per-tail significance level; a two-sided test
// rejects in both tails at that level.
package powerlib

import (
	"fmt"
	"math"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/ports"
)

// DefaultNodes is the Gauss-Legendre order used to integrate over the
// chi-square mixing distribution of the noncentral t.
const DefaultNodes = 96

// Outcome field names.
const (
	FieldPower    = "power"
	FieldNCP      = "ncp"
	FieldDF       = "df"
	FieldCritical = "critical"
)

// Library implements ports.PowerLibrary.
type Library struct {
	nodes int
}

var _ ports.PowerLibrary = (*Library)(nil)

// NewLibrary creates a library integrating with the given number of
// quadrature nodes; non-positive values select DefaultNodes.
func NewLibrary(nodes int) *Library {
	if nodes <= 0 {
		nodes = DefaultNodes
	}
	return &Library{nodes: nodes}
}

// TwoGroup dispatches two-sample t and two-proportion routines.
func (l *Library) TwoGroup(ref power.PowerRef, effectSize, sigLevel float64, alt power.Alternative, n1, n2 float64) (ports.Outcome, error) {
	if err := checkCommon(effectSize, sigLevel, alt); err != nil {
		return nil, err
	}
	if err := checkSize("n1", n1); err != nil {
		return nil, err
	}
	if err := checkSize("n2", n2); err != nil {
		return nil, err
	}

	switch ref {
	case power.RefTwoSampleT:
		return l.twoSampleT(effectSize, sigLevel, alt, n1, n2)
	case power.RefTwoProportion:
		return twoProportion(effectSize, sigLevel, alt, n1, n2), nil
	default:
		return nil, fmt.Errorf("%w: %q is not a two-group routine", core.ErrConfiguration, ref)
	}
}

// OneGroup dispatches one-sample t, paired t and correlation routines.
func (l *Library) OneGroup(ref power.PowerRef, effectSize, sigLevel float64, alt power.Alternative, n float64) (ports.Outcome, error) {
	if err := checkCommon(effectSize, sigLevel, alt); err != nil {
		return nil, err
	}
	if err := checkSize("n", n); err != nil {
		return nil, err
	}

	switch ref {
	case power.RefOneSampleT, power.RefPairedT:
		return l.oneSampleT(effectSize, sigLevel, alt, n)
	case power.RefCorrelation:
		return correlation(effectSize, sigLevel, alt, n)
	default:
		return nil, fmt.Errorf("%w: %q is not a one-group routine", core.ErrConfiguration, ref)
	}
}

func checkCommon(effectSize, sigLevel float64, alt power.Alternative) error {
	if math.IsNaN(effectSize) || math.IsInf(effectSize, 0) {
		return core.NewDomainError("effect_size", effectSize)
	}
	if !(sigLevel > 0 && sigLevel < 1) {
		return core.NewDomainError("sig_level", sigLevel)
	}
	if alt != power.TwoSided && alt != power.OneSided {
		return fmt.Errorf("%w: alternative %q", core.ErrOutOfDomain, alt)
	}
	return nil
}

func checkSize(name string, n float64) error {
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return core.NewDomainError(name, n)
	}
	return nil
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
