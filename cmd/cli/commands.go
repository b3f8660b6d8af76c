package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"trialpower/adapters/excel"
	"trialpower/adapters/report"
	"trialpower/app"
	"trialpower/domain/power"
	"trialpower/internal/errors"

	"github.com/spf13/cobra"
)

// errRejected is returned when the pipeline refuses the inputs; the issues
// have already been printed.
var errRejected = errors.InvalidInput("inputs rejected")

func newTestsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tests",
		Short: "List the supported hypothesis tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMETHODS")
			for _, s := range e.svc.ListTests() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, strings.Join(s.Methods, ", "))
			}
			return w.Flush()
		},
	}
}

func newDescribeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "describe [test-id]",
		Short: "Print a test's parameter schema as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := e.svc.GetTest(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(spec)
		},
	}
}

func newRunCmd(e *env) *cobra.Command {
	var sets []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [test-id]",
		Short: "Compute a power curve",
		Long: `Compute power across a sweep of effect sizes.

Example: trialpower run two_sample_t --set sample_size=120 --set dropout=0.1 --set effect_method=difference`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := parseSets(e.svc, args[0], sets)
			if err != nil {
				return err
			}
			analysis, err := e.svc.RunPowerAnalysis(args[0], in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(analysis); err != nil {
					return err
				}
				if !analysis.OK() {
					return errRejected
				}
				return nil
			}
			if !analysis.OK() {
				printIssues(out, analysis.Issues)
				return errRejected
			}
			printAnalysis(out, analysis)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Input value as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the analysis as JSON")
	return cmd
}

func newReportCmd(e *env) *cobra.Command {
	var sets []string
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "report [test-id]",
		Short: "Render a power analysis report as Markdown, HTML or JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			rec, err := analyzeForReport(cmd.OutOrStdout(), e.svc, args[0], sets)
			if err != nil {
				return err
			}
			doc, err := report.Render(rec, f)
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(outPath, doc, 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", outPath)
			}
			e.log.Info("wrote %s report to %s", f, outPath)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Input value as key=value (repeatable)")
	cmd.Flags().StringVar(&format, "format", "md", "Report format: md, html or json")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the report to a file instead of stdout")
	return cmd
}

func newExportCmd(e *env) *cobra.Command {
	var sets []string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export [test-id]",
		Short: "Export the power table and summary to an XLSX workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := analyzeForReport(cmd.OutOrStdout(), e.svc, args[0], sets)
			if err != nil {
				return err
			}
			if err := excel.SaveReport(outPath, rec); err != nil {
				return errors.Wrapf(err, "failed to write %s", outPath)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Input value as key=value (repeatable)")
	cmd.Flags().StringVar(&outPath, "out", "power.xlsx", "Workbook path")
	return cmd
}

func newBatchCmd(e *env) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [scenarios.xlsx|scenarios.csv]",
		Short: "Run one analysis per row of a scenario sheet",
		Long: `Run a batch of scenarios. The header row names a test_id column, an
optional name column, and any parameter keys; empty cells use defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := excel.NewScenarioReader(args[0]).ReadScenarios()
			if err != nil {
				return err
			}
			scenarios, err := toScenarios(e.svc, rows)
			if err != nil {
				return err
			}
			if concurrency <= 0 {
				concurrency = e.concurrency
			}
			results, err := app.NewBatchRunner(e.svc, concurrency).Run(cmd.Context(), scenarios)
			if err != nil {
				return err
			}
			printBatch(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel scenarios (default BATCH_CONCURRENCY)")
	return cmd
}

// parseSets types --set key=value pairs against the test's declarations
func parseSets(svc *app.AnalysisService, testID string, sets []string) (power.Inputs, error) {
	spec, err := svc.GetTest(testID)
	if err != nil {
		return power.Inputs{}, err
	}
	raw := make(map[string]string, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return power.Inputs{}, errors.InvalidInput(fmt.Sprintf("--set %q must be key=value", s))
		}
		raw[strings.TrimSpace(k)] = v
	}
	in, err := spec.ParseInputs(raw)
	if err != nil {
		return power.Inputs{}, errors.BadInput(err, "invalid --set value")
	}
	return in, nil
}

func toScenarios(svc *app.AnalysisService, rows []excel.ScenarioRow) ([]app.Scenario, error) {
	out := make([]app.Scenario, 0, len(rows))
	for _, r := range rows {
		sc := app.Scenario{Name: r.Name, TestID: r.TestID, Inputs: power.NewInputs()}
		// Unknown tests are reported per scenario by the runner.
		if spec, err := svc.GetTest(r.TestID); err == nil {
			in, err := spec.ParseInputs(r.Values)
			if err != nil {
				return nil, errors.BadInput(err, fmt.Sprintf("row %d", r.Line))
			}
			sc.Inputs = in
		}
		out = append(out, sc)
	}
	return out, nil
}

func analyzeForReport(out io.Writer, svc *app.AnalysisService, testID string, sets []string) (*power.ReportRecord, error) {
	in, err := parseSets(svc, testID, sets)
	if err != nil {
		return nil, err
	}
	analysis, rec, err := svc.Analyze(testID, in)
	if err != nil {
		return nil, err
	}
	if !analysis.OK() {
		printIssues(out, analysis.Issues)
		return nil, errRejected
	}
	return rec, nil
}

func printIssues(w io.Writer, issues []string) {
	fmt.Fprintln(w, "Inputs cannot produce a design:")
	for _, is := range issues {
		fmt.Fprintf(w, "  - %s\n", is)
	}
}

func printAnalysis(w io.Writer, a *power.Analysis) {
	d := a.Design
	if d.Kind == power.TwoGroup {
		fmt.Fprintf(w, "n1=%s n2=%s (completers %s / %s)\n", fmtNum(d.N1), fmtNum(d.N2), fmtNum(d.N1Completer), fmtNum(d.N2Completer))
	} else {
		fmt.Fprintf(w, "n=%s\n", fmtNum(d.N))
	}
	fmt.Fprintf(w, "method=%s alpha=%s alternative=%s\n\n", a.Method, fmtNum(a.Alpha), a.Alternative)

	if a.Table.AllMissing() {
		fmt.Fprintln(w, "No valid result: power could not be computed for any effect size.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "EFFECT\tSTANDARDIZED\tPOWER\t")
	for _, r := range a.Table {
		p := "n/a"
		if r.Power.Valid {
			p = strconv.FormatFloat(r.Power.Value, 'f', 4, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", fmtNum(r.EffectSize), fmtNum(r.StandardizedES), p)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d of %d rows computed\n", len(a.Table.Valid()), len(a.Table))
}

func printBatch(w io.Writer, results []app.ScenarioResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tTEST\tSTATUS\tPOWER RANGE\tEFFECT AT TARGET")
	for _, r := range results {
		status, span, target := "error", "", ""
		switch {
		case r.Err != nil:
			span = r.Err.Error()
		case !r.Analysis.OK():
			status = string(r.Analysis.Status)
			span = strings.Join(r.Analysis.Issues, "; ")
		default:
			status = string(r.Analysis.Status)
			if rec := r.Report; rec != nil && !rec.NoValidResult() {
				span = fmt.Sprintf("%.3f-%.3f", rec.PowerRange.Min, rec.PowerRange.Max)
				if rec.TargetEffectSize != nil {
					target = fmtNum(*rec.TargetEffectSize)
				}
			} else {
				span = "no valid result"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Scenario.Name, r.Scenario.TestID, status, span, target)
	}
	tw.Flush()
}

func fmtNum(x float64) string {
	return strconv.FormatFloat(x, 'g', 4, 64)
}
