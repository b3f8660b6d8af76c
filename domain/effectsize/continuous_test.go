package effectsize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestContinuousConversions(t *testing.T) {
	tests := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"identity", CohensD(0.5), 0.5},
		{"percent reduction", PercentReductionToD(0.2, 50, 20), 0.5},
		{"difference", DifferenceToD(5, 10), 0.5},
		{"active change lower is better", ActiveChangeToD(40, 50, 20), 0.5},
		{"active change worse than reference", ActiveChangeToD(60, 50, 20), -0.5},
		{"correlation identity", Correlation(0.3), 0.3},
		{"r squared", RSquaredToR(0.09), 0.3},
		{"negative r squared", RSquaredToR(-0.1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.got, 1e-12)
		})
	}
}

func TestProperty_ActiveChangeMatchesDifference(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ref := rapid.Float64Range(-100, 100).Draw(rt, "ref")
		active := rapid.Float64Range(-100, 100).Draw(rt, "active")
		sd := rapid.Float64Range(0.1, 50).Draw(rt, "sd")
		assert.InDelta(rt, DifferenceToD(ref-active, sd), ActiveChangeToD(active, ref, sd), 1e-9)
	})
}
