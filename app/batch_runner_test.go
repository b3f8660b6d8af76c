package app

import (
	"context"
	"fmt"
	"testing"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/internal/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBatchRunner_PreservesOrder(t *testing.T) {
	svc := newService(t, nil)
	var scenarios []Scenario
	for i, n := range []float64{40, 80, 120, 160, 200, 240} {
		scenarios = append(scenarios, Scenario{
			Name:   fmt.Sprintf("s%d", i),
			TestID: registry.TwoSampleTID,
			Inputs: power.NewInputs().Set(registry.KeySampleSize, n),
		})
	}

	results, err := NewBatchRunner(svc, 3).Run(context.Background(), scenarios)
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))

	prev := 0.0
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, scenarios[i].Name, r.Scenario.Name)
		require.True(t, r.Analysis.OK())
		require.NotNil(t, r.Report)
		// Larger trials have more power at the same effect size.
		p := r.Analysis.Table[0].Power.Value
		assert.Greater(t, p, prev)
		prev = p
	}
}

func TestBatchRunner_PerScenarioErrors(t *testing.T) {
	svc := newService(t, nil)
	scenarios := []Scenario{
		{Name: "ok", TestID: registry.PairedTID, Inputs: power.NewInputs()},
		{Name: "unknown", TestID: "anova", Inputs: power.NewInputs()},
		{Name: "invalid", TestID: registry.PairedTID, Inputs: power.NewInputs().Set(power.KeyAlpha, 2)},
	}

	results, err := NewBatchRunner(svc, 0).Run(context.Background(), scenarios)
	require.NoError(t, err)

	assert.NoError(t, results[0].Err)
	assert.True(t, results[0].Analysis.OK())

	assert.ErrorIs(t, results[1].Err, core.ErrUnknownTest)
	assert.Nil(t, results[1].Analysis)

	assert.NoError(t, results[2].Err)
	assert.Equal(t, power.StatusInvalid, results[2].Analysis.Status)
	assert.Nil(t, results[2].Report)
}

func TestBatchRunner_ConfigurationErrorAborts(t *testing.T) {
	lib := &mockLibrary{}
	lib.On("OneGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, core.NewConfigurationError(registry.PairedTID, "routine unavailable"))

	svc := newService(t, lib)
	_, err := NewBatchRunner(svc, 1).Run(context.Background(), []Scenario{{TestID: registry.PairedTID}})
	assert.True(t, core.IsConfigurationError(err))
}

func TestBatchRunner_CancelledContext(t *testing.T) {
	lib := &mockLibrary{}
	svc := newService(t, lib)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := NewBatchRunner(svc, 2).Run(ctx, []Scenario{{TestID: registry.PairedTID}, {TestID: registry.OneSampleTID}})
	assert.ErrorIs(t, err, context.Canceled)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.Analysis)
	}
	assert.Empty(t, lib.Calls)
}
