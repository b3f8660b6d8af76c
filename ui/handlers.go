package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"trialpower/adapters/excel"
	"trialpower/adapters/report"
	"trialpower/domain/core"
	"trialpower/domain/power"
	"trialpower/internal/errors"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// analysisResponse is the body of a successful or blocked analysis
type analysisResponse struct {
	Analysis *power.Analysis     `json:"analysis"`
	Report   *power.ReportRecord `json:"report,omitempty"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleListTests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.ListTests())
}

func (a *App) handleGetTest(w http.ResponseWriter, r *http.Request) {
	spec, err := a.lookup(r)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spec)
}

func (a *App) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, rec, ok := a.analyze(w, r)
	if !ok {
		return
	}
	status := http.StatusOK
	if !analysis.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, analysisResponse{Analysis: analysis, Report: rec})
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	analysis, rec, ok := a.analyze(w, r)
	if !ok {
		return
	}
	if !analysis.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, analysisResponse{Analysis: analysis})
		return
	}

	doc, err := report.Render(rec, format)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (a *App) handleExport(w http.ResponseWriter, r *http.Request) {
	analysis, rec, ok := a.analyze(w, r)
	if !ok {
		return
	}
	if !analysis.OK() {
		writeJSON(w, http.StatusUnprocessableEntity, analysisResponse{Analysis: analysis})
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, rec); err != nil {
		a.writeError(w, errors.Wrap(err, "failed to build workbook"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.TestID+"-power.xlsx"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// analyze decodes the request and runs the pipeline; on failure it has
// already written the error response.
func (a *App) analyze(w http.ResponseWriter, r *http.Request) (*power.Analysis, *power.ReportRecord, bool) {
	spec, err := a.lookup(r)
	if err != nil {
		a.writeError(w, err)
		return nil, nil, false
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		a.writeError(w, errors.BadInput(err, "failed to read request body"))
		return nil, nil, false
	}
	in, err := decodeInputs(spec, body)
	if err != nil {
		a.writeError(w, err)
		return nil, nil, false
	}

	analysis, rec, err := a.svc.Analyze(spec.ID, in)
	if err != nil {
		a.writeError(w, err)
		return nil, nil, false
	}
	a.log.Info("analysis test=%s status=%s rows=%d", spec.ID, analysis.Status, len(analysis.Table))
	return analysis, rec, true
}

func (a *App) lookup(r *http.Request) (*power.TestSpec, error) {
	id, err := core.ParseTestID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, errors.BadInput(err, "invalid test id")
	}
	return a.svc.GetTest(id.String())
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		a.log.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Code: code, Error: err.Error()})
}

func statusFor(code string) int {
	switch code {
	case errors.CodeUnknownTest, errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
