package app

import (
	"math"

	"trialpower/domain/power"

	"github.com/montanaflynn/stats"
)

// AssembleReport builds the report fields derivable from the table and
// design. Identity fields (ID, hash, timestamp) are left to the caller.
func AssembleReport(spec *power.TestSpec, p power.Params, table power.Table, design power.Design, target float64) *power.ReportRecord {
	rec := &power.ReportRecord{
		TestID:      spec.ID,
		TestName:    spec.Name,
		Method:      p.Method(),
		Alpha:       p.Number(power.KeyAlpha),
		Alternative: p.Alternative(),
		Parameters:  p.Echo(),
		Design:      design,
		TargetPower: target,
		Rows:        len(table),
		MissingRows: table.MissingCount(),
		Table:       table,
	}

	switch design.Kind {
	case power.TwoGroup:
		rec.ITT = &power.GroupSizes{N1: design.N1, N2: design.N2, Total: design.Total()}
		rec.Completer = &power.GroupSizes{N1: design.N1Completer, N2: design.N2Completer, Total: design.CompleterTotal()}
	default:
		n := design.N
		rec.N = &n
	}

	raws := make([]float64, len(table))
	stds := make([]float64, len(table))
	for i, r := range table {
		raws[i] = r.EffectSize
		stds[i] = r.StandardizedES
	}
	if r, ok := span(raws); ok {
		rec.RawRange = r
	}
	if r, ok := span(stds); ok {
		rec.StandardizedRange = r
	}
	if r, ok := span(table.Powers()); ok {
		rec.PowerRange = &r
	}

	if row, ok := ClosestToTarget(table, target); ok {
		es, pw := row.EffectSize, row.Power.Value
		rec.TargetEffectSize = &es
		rec.PowerAtTarget = &pw
	}
	return rec
}

// ClosestToTarget returns the computed row minimizing |power - target|.
// Ties go to the earliest row in sweep order.
func ClosestToTarget(table power.Table, target float64) (power.Row, bool) {
	best, found := power.Row{}, false
	bestDist := math.Inf(1)
	for _, r := range table.Valid() {
		if d := math.Abs(r.Power.Value - target); d < bestDist {
			best, bestDist, found = r, d, true
		}
	}
	return best, found
}

// span is the [min, max] of the finite values in xs.
func span(xs []float64) (power.Range, bool) {
	finite := make(stats.Float64Data, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	lo, err := finite.Min()
	if err != nil {
		return power.Range{}, false
	}
	hi, err := finite.Max()
	if err != nil {
		return power.Range{}, false
	}
	return power.Range{Min: lo, Max: hi}, true
}
