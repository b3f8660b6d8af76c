package app

import (
	"errors"
	"testing"

	"trialpower/adapters/stats/powerlib"
	"trialpower/domain/core"
	"trialpower/domain/effectsize"
	"trialpower/domain/power"
	"trialpower/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtractPower(t *testing.T) {
	tests := []struct {
		name  string
		out   ports.Outcome
		want  float64
		valid bool
	}{
		{"power field", ports.Outcome{"power": 0.8, "pwr": 0.1}, 0.8, true},
		{"pwr alias", ports.Outcome{"pwr": 0.3}, 0.3, true},
		{"probability alias", ports.Outcome{"probability": 0.4}, 0.4, true},
		{"no known field", ports.Outcome{"ncp": 2.1}, 0, false},
		{"nil outcome", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPower(tt.out)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.Equal(t, tt.want, got.Value)
			}
		})
	}
}

func TestPowerAdapter_CallShape(t *testing.T) {
	lib := &mockLibrary{}
	lib.On("TwoGroup", power.RefTwoSampleT, 0.5, 0.025, power.TwoSided, 45.0, 45.0).Return(ports.Outcome{"power": 0.6}, nil).Once()
	lib.On("OneGroup", power.RefCorrelation, 0.3, 0.05, power.OneSided, 40.0).Return(ports.Outcome{"pwr": 0.7}, nil).Once()

	a := NewPowerAdapter(lib)

	p, err := a.Power(power.RefTwoSampleT, power.NewTwoGroupDesign(100, 1, 0.1), 0.5, 0.025, power.TwoSided)
	require.NoError(t, err)
	assert.Equal(t, 0.6, p.Value)

	p, err = a.Power(power.RefCorrelation, power.NewSingleGroupDesign(40), 0.3, 0.05, power.OneSided)
	require.NoError(t, err)
	assert.Equal(t, 0.7, p.Value)

	lib.AssertExpectations(t)
}

func TestPowerAdapter_ShapeMismatchIsConfiguration(t *testing.T) {
	lib := &mockLibrary{}
	a := NewPowerAdapter(lib)

	_, err := a.Power(power.RefOneSampleT, power.NewTwoGroupDesign(100, 1, 0), 0.5, 0.05, power.TwoSided)
	assert.True(t, core.IsConfigurationError(err))

	_, err = a.Power(power.RefTwoProportion, power.NewSingleGroupDesign(100), 0.5, 0.05, power.TwoSided)
	assert.True(t, core.IsConfigurationError(err))

	_, err = a.Power(power.RefTwoProportion, power.Design{}, 0.5, 0.05, power.TwoSided)
	assert.True(t, core.IsConfigurationError(err))

	lib.AssertNotCalled(t, "TwoGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	lib.AssertNotCalled(t, "OneGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPowerAdapter_LibraryErrorPassesThrough(t *testing.T) {
	lib := &mockLibrary{}
	lib.On("OneGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, core.NewDomainError("n", 3))

	_, err := NewPowerAdapter(lib).Power(power.RefCorrelation, power.NewSingleGroupDesign(3), 0.3, 0.05, power.TwoSided)
	assert.True(t, errors.Is(err, core.ErrOutOfDomain))
}

// Cohen's h for 0.6 vs 0.4 with 100 per arm gives a proper probability.
func TestPowerAdapter_TwoProportionScenario(t *testing.T) {
	h := effectsize.CohensH(0.6, 0.4)
	require.InDelta(t, 0.4027158, h, 1e-6)

	p, err := NewPowerAdapter(powerlib.NewLibrary(0)).
		Power(power.RefTwoProportion, power.NewTwoGroupDesign(200, 1, 0), h, 0.05/2, power.TwoSided)
	require.NoError(t, err)
	require.True(t, p.Valid)
	assert.Greater(t, p.Value, 0.0)
	assert.Less(t, p.Value, 1.0)
	// Normal approximation: Phi(0.4027*sqrt(50) - 1.96) is about 0.81.
	assert.InDelta(t, 0.81, p.Value, 0.02)
}
