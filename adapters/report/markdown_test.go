package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *power.ReportRecord {
	es, pw := 0.6, 0.84
	return &power.ReportRecord{
		ID:                core.ReportID("r-1"),
		InputsHash:        core.NewHash([]byte("inputs")),
		GeneratedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TestID:            "two_sample_t",
		TestName:          "Two-sample t-test",
		Method:            "cohens_d",
		Alpha:             0.05,
		Alternative:       power.TwoSided,
		Parameters:        []power.ParameterValue{{Name: "sample_size", Label: "Total sample size", Value: "100"}},
		ITT:               &power.GroupSizes{N1: 50, N2: 50, Total: 100},
		Completer:         &power.GroupSizes{N1: 45, N2: 45, Total: 90},
		RawRange:          power.Range{Min: 0.2, Max: 1},
		StandardizedRange: power.Range{Min: 0.2, Max: 1},
		PowerRange:        &power.Range{Min: 0.16, Max: 0.99},
		TargetPower:       0.8,
		TargetEffectSize:  &es,
		PowerAtTarget:     &pw,
		Rows:              2,
		MissingRows:       1,
		Table: power.Table{
			{EffectSize: 0.2, StandardizedES: 0.2, Power: power.Known(0.16)},
			{EffectSize: 1, StandardizedES: 1, Power: power.Missing()},
		},
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleRecord())

	for _, want := range []string{
		"# Power analysis: Two-sample t-test",
		"| Total sample size | 100 |",
		"| Randomized | 50 | 50 | 100 |",
		"| Completers | 45 | 45 | 90 |",
		"closest to 80.0% power is 0.6 (power 84.0%)",
		"1 of 2 points could not be computed",
		"| 0.2 | 0.2 | 0.1600 |",
		"| 1 | 1 | n/a |",
		"two-sided",
	} {
		assert.Contains(t, md, want)
	}
}

func TestMarkdown_NoValidResult(t *testing.T) {
	rec := sampleRecord()
	rec.PowerRange = nil
	rec.TargetEffectSize = nil
	rec.ITT, rec.Completer = nil, nil
	n := 30.0
	rec.N = &n

	md := Markdown(rec)
	assert.Contains(t, md, "No valid result")
	assert.Contains(t, md, "n = 30")
	assert.NotContains(t, md, "| Effect size | Standardized | Power |")
}

func TestHTML(t *testing.T) {
	out := string(HTML(sampleRecord()))
	assert.True(t, strings.Contains(out, "<table>"), out)
	assert.Contains(t, out, "<title>Power analysis: Two-sample t-test</title>")
	assert.Contains(t, out, "<h1")
}

func TestRender(t *testing.T) {
	rec := sampleRecord()

	out, err := Render(rec, FormatJSON)
	require.NoError(t, err)
	var decoded power.ReportRecord
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, rec.TestID, decoded.TestID)
	assert.False(t, decoded.Table[1].Power.Valid)

	_, err = Render(rec, Format("pdf"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatMarkdown, true},
		{"markdown", FormatMarkdown, true},
		{"HTML", FormatHTML, true},
		{"json", FormatJSON, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok {
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		} else {
			assert.Error(t, err)
		}
	}
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}
