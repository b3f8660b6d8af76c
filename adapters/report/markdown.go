// Package report renders power analysis report records as Markdown, HTML
// or JSON documents.
package report

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"trialpower/domain/power"
	"trialpower/internal/errors"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Format selects the output document type
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

// ParseFormat accepts md, markdown, html or json; empty selects Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "md", "markdown":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.InvalidInput(fmt.Sprintf("unsupported report format %q", s))
	}
}

// ContentType is the MIME type of a rendered document
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Render produces the document for rec in the requested format
func Render(rec *power.ReportRecord, f Format) ([]byte, error) {
	switch f {
	case FormatMarkdown:
		return []byte(Markdown(rec)), nil
	case FormatHTML:
		return HTML(rec), nil
	case FormatJSON:
		return json.MarshalIndent(rec, "", "  ")
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported report format %q", f))
	}
}

// HTML renders the Markdown report as a complete HTML page
func HTML(rec *power.ReportRecord) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Power analysis: " + rec.TestName,
	})
	return markdown.ToHTML([]byte(Markdown(rec)), p, r)
}

// Markdown renders the report record
func Markdown(rec *power.ReportRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Power analysis: %s\n\n", rec.TestName)
	fmt.Fprintf(&b, "Generated %s. Report `%s`, inputs `%s`.\n\n",
		rec.GeneratedAt.Format("2006-01-02 15:04 MST"), rec.ID, rec.InputsHash.Short())

	b.WriteString("## Design\n\n")
	b.WriteString("| Parameter | Value |\n|---|---|\n")
	for _, pv := range rec.Parameters {
		fmt.Fprintf(&b, "| %s | %s |\n", pv.Label, pv.Value)
	}
	fmt.Fprintf(&b, "| Effect size method | %s |\n", rec.Method)
	fmt.Fprintf(&b, "| Significance level | %s (%s) |\n\n", num(rec.Alpha), strings.ReplaceAll(string(rec.Alternative), "_", "-"))

	b.WriteString("## Sample size\n\n")
	switch {
	case rec.ITT != nil:
		b.WriteString("| | Group 1 | Group 2 | Total |\n|---|---|---|---|\n")
		fmt.Fprintf(&b, "| Randomized | %s | %s | %s |\n", num(rec.ITT.N1), num(rec.ITT.N2), num(rec.ITT.Total))
		if rec.Completer != nil {
			fmt.Fprintf(&b, "| Completers | %s | %s | %s |\n", num(rec.Completer.N1), num(rec.Completer.N2), num(rec.Completer.Total))
		}
		b.WriteString("\nPower is computed on completers.\n\n")
	case rec.N != nil:
		fmt.Fprintf(&b, "n = %s\n\n", num(*rec.N))
	}

	b.WriteString("## Results\n\n")
	fmt.Fprintf(&b, "Effect sizes swept from %s to %s (standardized %s to %s) over %d points.\n\n",
		num(rec.RawRange.Min), num(rec.RawRange.Max),
		num(rec.StandardizedRange.Min), num(rec.StandardizedRange.Max), rec.Rows)

	if rec.NoValidResult() {
		b.WriteString("**No valid result:** power could not be computed for any effect size.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Power ranges from %s to %s.", pct(rec.PowerRange.Min), pct(rec.PowerRange.Max))
	if rec.TargetEffectSize != nil {
		fmt.Fprintf(&b, " The effect size closest to %s power is %s (power %s).",
			pct(rec.TargetPower), num(*rec.TargetEffectSize), pct(*rec.PowerAtTarget))
	}
	b.WriteString("\n\n")
	if rec.MissingRows > 0 {
		fmt.Fprintf(&b, "%d of %d points could not be computed and are marked n/a.\n\n", rec.MissingRows, rec.Rows)
	}

	b.WriteString("| Effect size | Standardized | Power |\n|---|---|---|\n")
	for _, r := range rec.Table {
		p := "n/a"
		if r.Power.Valid {
			p = strconv.FormatFloat(r.Power.Value, 'f', 4, 64)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", num(r.EffectSize), num(r.StandardizedES), p)
	}
	return b.String()
}

func num(x float64) string {
	return strconv.FormatFloat(x, 'g', 4, 64)
}

func pct(x float64) string {
	return strconv.FormatFloat(x*100, 'f', 1, 64) + "%"
}
