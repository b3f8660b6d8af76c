package power

import (
	"encoding/json"
	"fmt"
	"math"

	"trialpower/domain/core"
)

// DesignKind states which size fields a Design populates.
type DesignKind string

const (
	TwoGroup    DesignKind = "two_group"
	SingleGroup DesignKind = "single_group"
)

// Design holds unrounded sample sizes. Two-group designs carry both the
// intention-to-treat sizes and the completer sizes after attrition; power is
// computed on completers. The JSON form carries only the fields of its kind.
type Design struct {
	Kind          DesignKind `json:"kind"`
	N1            float64    `json:"n1"`
	N2            float64    `json:"n2"`
	N1Completer   float64    `json:"n1_completer"`
	N2Completer   float64    `json:"n2_completer"`
	N             float64    `json:"n"`
	Ratio         float64    `json:"allocation_ratio"`
	AttritionRate float64    `json:"attrition_rate"`
}

type twoGroupJSON struct {
	Kind          DesignKind `json:"kind"`
	N1            float64    `json:"n1"`
	N2            float64    `json:"n2"`
	N1Completer   float64    `json:"n1_completer"`
	N2Completer   float64    `json:"n2_completer"`
	Ratio         float64    `json:"allocation_ratio"`
	AttritionRate float64    `json:"attrition_rate"`
}

type singleGroupJSON struct {
	Kind DesignKind `json:"kind"`
	N    float64    `json:"n"`
}

// MarshalJSON writes zero sizes explicitly so a design with no completers
// stays distinguishable from a single-group design.
func (d Design) MarshalJSON() ([]byte, error) {
	switch d.Kind {
	case TwoGroup:
		return json.Marshal(twoGroupJSON{
			Kind:          d.Kind,
			N1:            d.N1,
			N2:            d.N2,
			N1Completer:   d.N1Completer,
			N2Completer:   d.N2Completer,
			Ratio:         d.Ratio,
			AttritionRate: d.AttritionRate,
		})
	case SingleGroup:
		return json.Marshal(singleGroupJSON{Kind: d.Kind, N: d.N})
	default:
		type plain Design
		return json.Marshal(plain(d))
	}
}

// NewTwoGroupDesign splits total as n1 = r*N/(r+1), n2 = N/(r+1) and applies
// attrition to both arms. Sizes never go below zero.
func NewTwoGroupDesign(total, ratio, attrition float64) Design {
	if ratio <= 0 {
		ratio = 1
	}
	n1 := nonNegative(ratio * total / (ratio + 1))
	n2 := nonNegative(total / (ratio + 1))
	keep := nonNegative(1 - attrition)
	return Design{
		Kind:          TwoGroup,
		N1:            n1,
		N2:            n2,
		N1Completer:   n1 * keep,
		N2Completer:   n2 * keep,
		Ratio:         ratio,
		AttritionRate: attrition,
	}
}

// NewSingleGroupDesign takes n directly.
func NewSingleGroupDesign(n float64) Design {
	return Design{Kind: SingleGroup, N: nonNegative(n)}
}

// AnalysisSizes returns the sizes power is computed on: completers for
// two-group designs, n for single-group designs.
func (d Design) AnalysisSizes() (n1, n2 float64) {
	if d.Kind == TwoGroup {
		return d.N1Completer, d.N2Completer
	}
	return d.N, 0
}

// Total is the intention-to-treat total.
func (d Design) Total() float64 {
	if d.Kind == TwoGroup {
		return d.N1 + d.N2
	}
	return d.N
}

// CompleterTotal is the number expected to complete.
func (d Design) CompleterTotal() float64 {
	if d.Kind == TwoGroup {
		return d.N1Completer + d.N2Completer
	}
	return d.N
}

// Computable reports whether every analysed size is strictly positive.
func (d Design) Computable() bool {
	if d.Kind == TwoGroup {
		return d.N1Completer > 0 && d.N2Completer > 0
	}
	return d.N > 0
}

// Check rejects a design that populates neither shape.
func (d Design) Check(testID string) error {
	switch d.Kind {
	case TwoGroup, SingleGroup:
		return nil
	default:
		return core.NewConfigurationError(testID, fmt.Sprintf("design kind %q", d.Kind))
	}
}

func nonNegative(x float64) float64 {
	if math.IsNaN(x) || x < 0 {
		return 0
	}
	return x
}
