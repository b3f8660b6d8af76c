package power

import (
	"encoding/json"
	"math"
)

// Alternative is the sidedness handed to power routines.
type Alternative string

const (
	TwoSided Alternative = "two_sided"
	OneSided Alternative = "one_sided"
)

// Sides is 2 for two-sided tests and 1 otherwise.
func (a Alternative) Sides() float64 {
	if a == TwoSided {
		return 2
	}
	return 1
}

// Prob is a probability that may be missing. A missing value marks a sweep
// point whose power could not be computed.
type Prob struct {
	Value float64
	Valid bool
}

// Known wraps a computed probability. NaN and infinities become Missing.
func Known(v float64) Prob {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing()
	}
	return Prob{Value: v, Valid: true}
}

// Missing is a probability that could not be computed.
func Missing() Prob { return Prob{} }

// Float returns the value, or NaN when missing.
func (p Prob) Float() float64 {
	if !p.Valid {
		return math.NaN()
	}
	return p.Value
}

// MarshalJSON encodes a missing value as null.
func (p Prob) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

// UnmarshalJSON accepts a number or null.
func (p *Prob) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = Missing()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = Known(v)
	return nil
}

// Row is one point of a power curve.
type Row struct {
	EffectSize     float64 `json:"effect_size"`
	StandardizedES float64 `json:"standardized_es"`
	Power          Prob    `json:"power"`
}

// Table is a power curve in sweep order.
type Table []Row

// Valid returns rows whose power was computed.
func (t Table) Valid() Table {
	out := make(Table, 0, len(t))
	for _, r := range t {
		if r.Power.Valid {
			out = append(out, r)
		}
	}
	return out
}

// AllMissing is true for an empty table or one with no computed rows; the
// presentation layer shows "no valid result" instead of a chart.
func (t Table) AllMissing() bool {
	for _, r := range t {
		if r.Power.Valid {
			return false
		}
	}
	return true
}

// MissingCount counts rows without power.
func (t Table) MissingCount() int {
	n := 0
	for _, r := range t {
		if !r.Power.Valid {
			n++
		}
	}
	return n
}

// Powers returns the computed power values in sweep order.
func (t Table) Powers() []float64 {
	out := make([]float64, 0, len(t))
	for _, r := range t {
		if r.Power.Valid {
			out = append(out, r.Power.Value)
		}
	}
	return out
}

// StrictlyIncreasing reports whether the computed powers rise at every step.
// Missing rows are skipped; fewer than two computed rows is trivially true.
func (t Table) StrictlyIncreasing() bool {
	p := t.Powers()
	for i := 1; i < len(p); i++ {
		if !(p[i] > p[i-1]) {
			return false
		}
	}
	return true
}

// Status is the outcome of one analysis.
type Status string

const (
	StatusOK      Status = "ok"
	StatusInvalid Status = "invalid"
)

// Analysis is the result of one pipeline run. Invalid analyses carry only
// the issue list.
type Analysis struct {
	Status      Status      `json:"status"`
	TestID      string      `json:"test_id"`
	Method      string      `json:"method,omitempty"`
	Issues      []string    `json:"issues,omitempty"`
	Design      *Design     `json:"design,omitempty"`
	Sweep       *Sweep      `json:"sweep,omitempty"`
	Table       Table       `json:"table,omitempty"`
	Alpha       float64     `json:"alpha,omitempty"`
	Alternative Alternative `json:"alternative,omitempty"`
}

// OK reports whether the analysis produced a table.
func (a *Analysis) OK() bool {
	return a != nil && a.Status == StatusOK
}
