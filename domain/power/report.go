package power

import (
	"time"

	"trialpower/domain/core"
)

// DefaultTargetPower is the power level reports look for.
const DefaultTargetPower = 0.8

// Range is an observed [min, max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GroupSizes is one pair of arm sizes.
type GroupSizes struct {
	N1    float64 `json:"n1"`
	N2    float64 `json:"n2"`
	Total float64 `json:"total"`
}

// ReportRecord is the flat summary handed to report formatters.
type ReportRecord struct {
	ID          core.ReportID    `json:"id"`
	InputsHash  core.Hash        `json:"inputs_hash"`
	GeneratedAt time.Time        `json:"generated_at"`
	TestID      string           `json:"test_id"`
	TestName    string           `json:"test_name"`
	Method      string           `json:"method"`
	Alpha       float64          `json:"alpha"`
	Alternative Alternative      `json:"alternative"`
	Parameters  []ParameterValue `json:"parameters"`
	Design      Design           `json:"design"`

	// ITT and Completer are set for two-group designs, N for single-group.
	ITT       *GroupSizes `json:"itt,omitempty"`
	Completer *GroupSizes `json:"completer,omitempty"`
	N         *float64    `json:"n,omitempty"`

	RawRange          Range  `json:"raw_range"`
	StandardizedRange Range  `json:"standardized_range"`
	PowerRange        *Range `json:"power_range,omitempty"`

	TargetPower      float64  `json:"target_power"`
	TargetEffectSize *float64 `json:"target_effect_size,omitempty"`
	PowerAtTarget    *float64 `json:"power_at_target,omitempty"`

	Rows        int   `json:"rows"`
	MissingRows int   `json:"missing_rows"`
	Table       Table `json:"table"`
}

// NoValidResult is true when no row had a computed power.
func (r *ReportRecord) NoValidResult() bool {
	return r.PowerRange == nil
}
