package app

import (
	"context"

	"trialpower/domain/core"
	"trialpower/domain/power"

	"golang.org/x/sync/errgroup"
)

// Scenario is one named analysis request in a batch
type Scenario struct {
	Name   string       `json:"name"`
	TestID string       `json:"test_id"`
	Inputs power.Inputs `json:"inputs"`
}

// ScenarioResult pairs a scenario with its outcome. Err holds per-scenario
// failures such as an unknown test id.
type ScenarioResult struct {
	Scenario Scenario            `json:"scenario"`
	Analysis *power.Analysis     `json:"analysis,omitempty"`
	Report   *power.ReportRecord `json:"report,omitempty"`
	Err      error               `json:"-"`
}

// BatchRunner runs independent scenarios concurrently with a bounded
// number of workers
type BatchRunner struct {
	svc   *AnalysisService
	limit int
}

// NewBatchRunner creates a batch runner; limit below 1 runs serially
func NewBatchRunner(svc *AnalysisService, limit int) *BatchRunner {
	if limit < 1 {
		limit = 1
	}
	return &BatchRunner{svc: svc, limit: limit}
}

// Run executes every scenario and returns results in input order. A broken
// test spec aborts the batch; cancelling ctx stops scheduling and the
// unscheduled scenarios carry ctx's error.
func (b *BatchRunner) Run(ctx context.Context, scenarios []Scenario) ([]ScenarioResult, error) {
	results := make([]ScenarioResult, len(scenarios))
	for i, sc := range scenarios {
		results[i].Scenario = sc
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.limit)

	for i := range scenarios {
		if err := gctx.Err(); err != nil {
			for j := i; j < len(scenarios); j++ {
				results[j].Err = err
			}
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			sc := scenarios[i]
			a, rec, err := b.svc.Analyze(sc.TestID, sc.Inputs)
			if err != nil {
				if core.IsConfigurationError(err) {
					return err
				}
				results[i].Err = err
				return nil
			}
			results[i].Analysis = a
			results[i].Report = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
