package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trialpower/internal"

	"github.com/xuri/excelize/v2"
)

// Reserved scenario columns; every other column is a parameter key.
const (
	ColumnTestID = "test_id"
	ColumnName   = "name"
)

// ScenarioRow is one batch scenario as read from a sheet. Values holds the
// raw cell text keyed by parameter name; empty cells are omitted so the
// test's defaults apply.
type ScenarioRow struct {
	Line   int
	Name   string
	TestID string
	Values map[string]string
}

// ScenarioReader handles reading scenario sheets from Excel and CSV files
type ScenarioReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	log      *internal.Logger
}

// NewScenarioReader creates a reader that handles both Excel and CSV files
func NewScenarioReader(filePath string) *ScenarioReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &ScenarioReader{filePath: filePath, fileType: fileType, log: internal.DefaultLogger}
}

// ReadScenarios reads the first sheet (or the CSV) as a header row followed
// by one scenario per row
func (r *ScenarioReader) ReadScenarios() ([]ScenarioRow, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var (
		rows [][]string
		err  error
	)
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one scenario row", strings.ToUpper(r.fileType))
	}
	return r.processRows(rows)
}

func (r *ScenarioReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	r.log.Debug("read %d rows from sheet %s of %s", len(rows), sheets[0], r.filePath)
	return rows, nil
}

func (r *ScenarioReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.log.Debug("read %d rows from %s", len(rows), r.filePath)
	return rows, nil
}

// processRows converts raw string rows into scenarios
func (r *ScenarioReader) processRows(rows [][]string) ([]ScenarioRow, error) {
	headers := make([]string, len(rows[0]))
	testCol := -1
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
		if headers[i] == ColumnTestID {
			testCol = i
		}
	}
	if testCol < 0 {
		return nil, fmt.Errorf("header row must contain a %q column", ColumnTestID)
	}

	var out []ScenarioRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		sc := ScenarioRow{Line: i + 1, Values: map[string]string{}}
		for j, cell := range row {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			switch headers[j] {
			case ColumnTestID:
				sc.TestID = cell
			case ColumnName:
				sc.Name = cell
			default:
				if cell != "" {
					sc.Values[headers[j]] = cell
				}
			}
		}
		if sc.TestID == "" {
			return nil, fmt.Errorf("row %d: %s is empty", sc.Line, ColumnTestID)
		}
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("row %d", sc.Line)
		}
		out = append(out, sc)
	}

	r.log.Info("loaded %d scenarios from %s", len(out), r.filePath)
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
