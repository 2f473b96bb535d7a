package service

import (
	"casestatus-backend/internal/casestore"
	"casestatus-backend/internal/jobs"
	"casestatus-backend/internal/scrapers/casestatus"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

//go:embed static/index.html
var indexPage []byte

type searchResponse struct {
	JobID  string      `json:"job_id"`
	Status jobs.Status `json:"status"`
}

type caseResult struct {
	Petitioner      *string `json:"petitioner"`
	Respondent      *string `json:"respondent"`
	FilingDate      *string `json:"filing_date"`
	NextHearingDate *string `json:"next_hearing_date"`
	Error           *string `json:"error"`
}

type resultResponse struct {
	Status jobs.Status `json:"status"`
	Result *caseResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
	Kind   string      `json:"kind,omitempty"`
}

type caseRecord struct {
	JobID      string `json:"job_id"`
	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number"`
	CaseYear   string `json:"case_year"`
	caseResult
	CreatedAt string `json:"created_at"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorResponse{Detail: detail})
}

func (s Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexPage)
}

func (s Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query casestatus.CaseQuery
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&query)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	query = NormalizeQuery(query)
	if missing := query.Missing(); len(missing) > 0 {
		respondError(w, http.StatusBadRequest, "missing fields: "+strings.Join(missing, ", "))
		return
	}

	job, err := s.jobs.Submit(query)
	if err != nil {
		s.tel.ReportWarning(report_service_search, err)
		metricSearchesRejected.Inc()
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	metricSearchesSubmitted.Inc()
	respondJSON(w, http.StatusAccepted, searchResponse{JobID: job.ID, Status: job.Status})
}

func (s Service) handleResult(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(chi.URLParam(r, "job_id"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		respondError(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metricResultsPolled.WithLabelValues(string(job.Status)).Inc()

	switch job.Status {
	case jobs.STATUS_PROCESSING:
		respondJSON(w, http.StatusOK, resultResponse{Status: job.Status})
	case jobs.STATUS_ERROR:
		respondJSON(w, http.StatusOK, resultResponse{
			Status: job.Status,
			Error:  job.Error,
			Kind:   job.ErrorKind,
		})
	default:
		respondJSON(w, http.StatusOK, resultResponse{
			Status: job.Status,
			Result: resultFromFields(job.Fields),
		})
	}
}

func resultFromFields(fields casestatus.CaseFields) *caseResult {
	return &caseResult{
		Petitioner:      fields.Petitioner,
		Respondent:      fields.Respondent,
		FilingDate:      fields.FilingDate,
		NextHearingDate: fields.NextHearingDate,
	}
}

// handleCases lists recent persisted results, or every result of one case when
// case_type, case_number and case_year are all given.
func (s Service) handleCases(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotFound, "case history is not enabled")
		return
	}

	params := r.URL.Query()
	query := NormalizeQuery(casestatus.CaseQuery{
		CaseType:   params.Get("case_type"),
		CaseNumber: params.Get("case_number"),
		CaseYear:   params.Get("case_year"),
	})
	missing := query.Missing()

	var records []casestore.Record
	var err error
	switch {
	case len(missing) == 0:
		records, err = s.history.History(r.Context(), query)
	case len(missing) < 3:
		respondError(w, http.StatusBadRequest, "missing fields: "+strings.Join(missing, ", "))
		return
	default:
		limit := 50
		if raw := params.Get("limit"); raw != "" {
			parsed, perr := strconv.Atoi(raw)
			if perr != nil || parsed <= 0 || parsed > 500 {
				respondError(w, http.StatusBadRequest, "limit must be between 1 and 500")
				return
			}
			limit = parsed
		}
		records, err = s.history.List(r.Context(), limit)
	}
	if err != nil {
		s.tel.ReportBroken(report_service_cases, err)
		respondError(w, http.StatusInternalServerError, "failed to list cases")
		return
	}

	out := make([]caseRecord, len(records))
	for i, record := range records {
		out[i] = recordResponse(record)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s Service) handleCase(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		respondError(w, http.StatusNotFound, "case history is not enabled")
		return
	}

	record, err := s.history.Get(r.Context(), chi.URLParam(r, "job_id"))
	if errors.Is(err, casestore.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Case not found")
		return
	}
	if err != nil {
		s.tel.ReportBroken(report_service_case, err)
		respondError(w, http.StatusInternalServerError, "failed to read case")
		return
	}
	respondJSON(w, http.StatusOK, recordResponse(record))
}

func recordResponse(record casestore.Record) caseRecord {
	return caseRecord{
		JobID:      record.JobID,
		CaseType:   record.Query.CaseType,
		CaseNumber: record.Query.CaseNumber,
		CaseYear:   record.Query.CaseYear,
		caseResult: *resultFromFields(record.Fields),
		CreatedAt:  record.CreatedAt.Format(time.RFC3339),
	}
}

func (s Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		err := s.health(r.Context())
		if err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
