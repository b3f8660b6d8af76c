package excel

import (
	"io"

	"trialpower/domain/power"

	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported workbook
const (
	SheetPower   = "Power"
	SheetSummary = "Summary"
)

// WriteReport writes the power table and a key/value summary of rec as an
// XLSX workbook. Missing powers are left blank.
func WriteReport(w io.Writer, rec *power.ReportRecord) error {
	f, err := buildWorkbook(rec)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveReport writes the workbook to path
func SaveReport(path string, rec *power.ReportRecord) error {
	f, err := buildWorkbook(rec)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func buildWorkbook(rec *power.ReportRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetPower); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(SheetPower, "A1", &[]interface{}{"Effect size", "Standardized effect size", "Power"}); err != nil {
		return nil, err
	}
	for i, r := range rec.Table {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{r.EffectSize, r.StandardizedES}
		if r.Power.Valid {
			values = append(values, r.Power.Value)
		}
		if err := f.SetSheetRow(SheetPower, cell, &values); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}
	for i, kv := range summaryRows(rec) {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &kv); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func summaryRows(rec *power.ReportRecord) [][]interface{} {
	rows := [][]interface{}{
		{"Test", rec.TestName},
		{"Report ID", rec.ID.String()},
		{"Inputs hash", rec.InputsHash.String()},
		{"Generated at", rec.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"Effect size method", rec.Method},
		{"Significance level", rec.Alpha},
		{"Alternative", string(rec.Alternative)},
	}
	for _, pv := range rec.Parameters {
		rows = append(rows, []interface{}{pv.Label, pv.Value})
	}
	if rec.ITT != nil {
		rows = append(rows,
			[]interface{}{"Group 1 randomized", rec.ITT.N1},
			[]interface{}{"Group 2 randomized", rec.ITT.N2},
		)
	}
	if rec.Completer != nil {
		rows = append(rows,
			[]interface{}{"Group 1 completers", rec.Completer.N1},
			[]interface{}{"Group 2 completers", rec.Completer.N2},
		)
	}
	if rec.N != nil {
		rows = append(rows, []interface{}{"n", *rec.N})
	}
	if rec.PowerRange != nil {
		rows = append(rows,
			[]interface{}{"Minimum power", rec.PowerRange.Min},
			[]interface{}{"Maximum power", rec.PowerRange.Max},
		)
	}
	rows = append(rows, []interface{}{"Target power", rec.TargetPower})
	if rec.TargetEffectSize != nil {
		rows = append(rows,
			[]interface{}{"Effect size at target", *rec.TargetEffectSize},
			[]interface{}{"Power at target", *rec.PowerAtTarget},
		)
	}
	return rows
}
