package app

import (
	"time"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/internal"
	"trialpower/ports"
)

// Options configures an AnalysisService. Zero values select defaults.
type Options struct {
	SweepPoints int
	TargetPower float64
	Logger      *internal.Logger
	Now         func() time.Time
}

func (o Options) withDefaults() Options {
	if o.SweepPoints <= 0 {
		o.SweepPoints = power.DefaultSweepPoints
	}
	if !(o.TargetPower > 0 && o.TargetPower < 1) {
		o.TargetPower = power.DefaultTargetPower
	}
	if o.Logger == nil {
		o.Logger = internal.DefaultLogger
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// AnalysisService runs the generic power pipeline against any catalogued
// test. It holds no per-request state and is safe for concurrent use.
type AnalysisService struct {
	catalog ports.Catalog
	adapter *PowerAdapter
	opts    Options
	log     *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(catalog ports.Catalog, lib ports.PowerLibrary, opts Options) *AnalysisService {
	opts = opts.withDefaults()
	return &AnalysisService{
		catalog: catalog,
		adapter: NewPowerAdapter(lib),
		opts:    opts,
		log:     opts.Logger,
	}
}

// ListTests returns the summaries of every catalogued test
func (s *AnalysisService) ListTests() []power.Summary {
	specs := s.catalog.List()
	out := make([]power.Summary, len(specs))
	for i, spec := range specs {
		out[i] = spec.Summary()
	}
	return out
}

// GetTest returns one test spec
func (s *AnalysisService) GetTest(id string) (*power.TestSpec, error) {
	return s.catalog.Get(id)
}

// RunPowerAnalysis computes a power curve. Invalid inputs yield an
// "invalid" analysis carrying only the issues, and the power library is not
// called. Errors are reserved for unknown tests and broken test specs;
// a sweep point the library rejects becomes a missing row.
func (s *AnalysisService) RunPowerAnalysis(testID string, in power.Inputs) (*power.Analysis, error) {
	spec, err := s.catalog.Get(testID)
	if err != nil {
		return nil, err
	}
	p := spec.Resolve(in)
	log := s.log.With("test_id", spec.ID, "method", p.Method())

	if unknown := p.UnknownKeys(); len(unknown) > 0 {
		log.Debug("ignoring undeclared inputs %v", unknown)
	}

	if issues := spec.Validate(p); len(issues) > 0 {
		log.Debug("inputs rejected with %d issue(s)", len(issues))
		return &power.Analysis{
			Status: power.StatusInvalid,
			TestID: spec.ID,
			Method: p.Method(),
			Issues: issues,
		}, nil
	}

	design := spec.ComputeDesign(p)
	if err := design.Check(spec.ID); err != nil {
		return nil, err
	}

	es, err := spec.EffectSize(p.Method())
	if err != nil {
		return nil, err
	}
	r := p.EffectRange()
	raw := power.GenerateSweep(r.Min, r.Max, s.opts.SweepPoints)
	std, err := spec.Standardize(raw, es.Method, p)
	if err != nil {
		return nil, err
	}
	log.Trace("dependencies %v", p.Dependencies())

	alpha := p.Number(power.KeyAlpha)
	alt := p.Alternative()
	sig := alpha / alt.Sides()

	table := make(power.Table, len(raw))
	computable := design.Computable()
	if !computable {
		log.Debug("no completers remain, every row is missing")
	}
	for i := range raw {
		row := power.Row{EffectSize: raw[i], StandardizedES: std[i], Power: power.Missing()}
		if computable {
			pr, err := s.adapter.Power(spec.PowerRef, design, std[i], sig, alt)
			switch {
			case err == nil:
				row.Power = pr
			case core.IsConfigurationError(err):
				return nil, err
			default:
				log.Trace("row %d (es=%g) missing: %v", i, std[i], err)
			}
		}
		table[i] = row
	}

	log.Debug("computed %d rows, %d missing", len(table), table.MissingCount())
	return &power.Analysis{
		Status:      power.StatusOK,
		TestID:      spec.ID,
		Method:      es.Method,
		Design:      &design,
		Sweep:       &power.Sweep{Method: es.Method, Raw: raw, Standardized: std},
		Table:       table,
		Alpha:       alpha,
		Alternative: alt,
	}, nil
}

// BuildReportRecord flattens a finished analysis into the record the
// report formatters consume
func (s *AnalysisService) BuildReportRecord(testID string, in power.Inputs, table power.Table, design power.Design) (*power.ReportRecord, error) {
	spec, err := s.catalog.Get(testID)
	if err != nil {
		return nil, err
	}
	p := spec.Resolve(in)

	target := s.opts.TargetPower
	if p.Supplied(power.KeyTargetPower) {
		target = p.Number(power.KeyTargetPower)
	}

	rec := AssembleReport(spec, p, table, design, target)
	rec.ID = core.NewReportID()
	rec.InputsHash = core.ComputeInputsHash(spec.ID, in.Numbers, in.Choices)
	rec.GeneratedAt = s.opts.Now().UTC()
	return rec, nil
}

// Analyze runs the pipeline and, when the inputs are valid, assembles the
// report record for the result.
func (s *AnalysisService) Analyze(testID string, in power.Inputs) (*power.Analysis, *power.ReportRecord, error) {
	a, err := s.RunPowerAnalysis(testID, in)
	if err != nil || !a.OK() {
		return a, nil, err
	}
	rec, err := s.BuildReportRecord(testID, in, a.Table, *a.Design)
	if err != nil {
		return nil, nil, err
	}
	return a, rec, nil
}
