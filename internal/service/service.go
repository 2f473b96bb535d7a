// Package service exposes the job API over HTTP: submit a case lookup, then poll for its result.
package service

import (
	"casestatus-backend/internal/casestore"
	"casestatus-backend/internal/components/assert"
	"casestatus-backend/internal/components/telemetry"
	"casestatus-backend/internal/jobs"
	"casestatus-backend/internal/scrapers/casestatus"
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	report_service_search = "service.search"
	report_service_cases  = "service.cases"
	report_service_case   = "service.case"
)

// JobAPI submits and looks up jobs, it is jobs.Runner outside of tests.
type JobAPI interface {
	Submit(q casestatus.CaseQuery) (jobs.Job, error)
	Get(id string) (jobs.Job, error)
}

// CaseHistory reads persisted results, it is casestore.Store outside of tests.
type CaseHistory interface {
	Get(ctx context.Context, jobID string) (casestore.Record, error)
	List(ctx context.Context, limit int) ([]casestore.Record, error)
	History(ctx context.Context, q casestatus.CaseQuery) ([]casestore.Record, error)
}

type serviceConfig struct {
	history CaseHistory
	health  func(ctx context.Context) error
}

type ServiceOption func(cfg *serviceConfig)

func WithCaseHistory(history CaseHistory) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.history = history
	}
}

// WithHealthCheck makes /healthz fail with 503 while check returns an error.
func WithHealthCheck(check func(ctx context.Context) error) ServiceOption {
	return func(cfg *serviceConfig) {
		cfg.health = check
	}
}

type Service struct {
	jobs    JobAPI
	history CaseHistory
	health  func(ctx context.Context) error
	tel     telemetry.API
}

func NewService(jobs JobAPI, tel telemetry.API, options ...ServiceOption) Service {
	assert.NotNil(jobs, "jobs")
	assert.NotNil(tel, "telemetry")

	cfg := serviceConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	return Service{
		jobs:    jobs,
		history: cfg.history,
		health:  cfg.health,
		tel:     telemetry.NewScopedAPI("service", tel),
	}
}

func (s Service) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(corsMiddleware)

	router.Get("/", s.handleIndex)
	router.Post("/search", s.handleSearch)
	router.Get("/result/{job_id}", s.handleResult)
	router.Get("/cases", s.handleCases)
	router.Get("/cases/{job_id}", s.handleCase)
	router.Get("/healthz", s.handleHealthz)
	router.Handle("/metrics", promhttp.Handler())
	return router
}

// NormalizeQuery trims surrounding whitespace from the fields of q and leaves everything else as sent.
func NormalizeQuery(q casestatus.CaseQuery) casestatus.CaseQuery {
	return casestatus.CaseQuery{
		CaseType:   strings.TrimSpace(q.CaseType),
		CaseNumber: strings.TrimSpace(q.CaseNumber),
		CaseYear:   strings.TrimSpace(q.CaseYear),
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST")
			requested := r.Header.Get("Access-Control-Request-Headers")
			if requested != "" {
				w.Header().Set("Access-Control-Allow-Headers", requested)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
