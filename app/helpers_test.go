package app

import (
	"io"
	"testing"
	"time"

	"trialpower/adapters/stats/powerlib"
	"trialpower/domain/power"
	"trialpower/internal"
	"trialpower/internal/registry"
	"trialpower/ports"

	"github.com/stretchr/testify/mock"
)

// mockLibrary is a programmable power library.
type mockLibrary struct {
	mock.Mock
}

func (m *mockLibrary) TwoGroup(ref power.PowerRef, es, sig float64, alt power.Alternative, n1, n2 float64) (ports.Outcome, error) {
	args := m.Called(ref, es, sig, alt, n1, n2)
	out, _ := args.Get(0).(ports.Outcome)
	return out, args.Error(1)
}

func (m *mockLibrary) OneGroup(ref power.PowerRef, es, sig float64, alt power.Alternative, n float64) (ports.Outcome, error) {
	args := m.Called(ref, es, sig, alt, n)
	out, _ := args.Get(0).(ports.Outcome)
	return out, args.Error(1)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Logger: internal.NewLoggerTo(io.Discard, internal.LogLevelError),
		Now:    func() time.Time { return fixedNow },
	}
}

func newService(t *testing.T, lib ports.PowerLibrary) *AnalysisService {
	t.Helper()
	if lib == nil {
		lib = powerlib.NewLibrary(0)
	}
	return NewAnalysisService(registry.MustDefault(), lib, testOptions())
}
