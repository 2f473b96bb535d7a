// Package casestatus drives the court portal's case status form in a browser: it fills the
// lookup form, gets past the numeric captcha, reads the case details and downloads the case
// document.
package casestatus

import (
	"casestatus-backend/internal/browser"
	"casestatus-backend/internal/components/assert"
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/components/telemetry"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("casestatus.scrapers.casestatus")

const (
	report_scraper_run       = "scraper.run"
	report_scraper_session   = "scraper.session"
	report_challenge_attempt = "challenge.attempt"
	report_extract_field     = "extract.field"
	report_fetch_document    = "fetch-document"
)

const DefaultPortalURL = "https://hcmadras.tn.gov.in/case_status_mas.php"

// Solver produces a captcha guess from the image stored at path.
type Solver interface {
	SolveFile(ctx context.Context, path string) string
}

type Options struct {
	PortalURL string
	Headless  bool
	// DownloadDir is the parent of the per-query directories documents are saved into.
	DownloadDir string

	MaxAttempts int
	// Settle is the delay after navigation and after committing the case type.
	Settle time.Duration
	// SubmitSettle is the delay between submitting a guess and reading the verdict.
	SubmitSettle time.Duration
	// WaitTimeout bounds the waits for the case details and the document form.
	WaitTimeout time.Duration
	// ActionTimeout bounds how long a single interaction looks for its element.
	ActionTimeout time.Duration
	// RequestsPerMinute limits how often new sessions open the portal, 0 disables the limit.
	RequestsPerMinute int
}

func DefaultOptions() Options {
	return Options{
		PortalURL:     DefaultPortalURL,
		Headless:      true,
		DownloadDir:   "downloads",
		MaxAttempts:   5,
		Settle:        time.Second,
		SubmitSettle:  time.Second * 2,
		WaitTimeout:   time.Second * 70,
		ActionTimeout: time.Second * 5,
	}
}

// Scraper runs case status queries, each in its own browser session.
type Scraper struct {
	runtime browser.Runtime
	solver  Solver
	time    chrono.API
	tel     telemetry.API
	opts    Options
	limiter *rate.Limiter

	attemptCounter metric.Int64Counter
	resultCounter  metric.Int64Counter
}

func NewScraper(
	runtime browser.Runtime,
	solver Solver,
	clock chrono.API,
	tel telemetry.API,
	opts Options,
) *Scraper {
	assert.NotNil(runtime, "browser runtime")
	assert.NotNil(solver, "captcha solver")
	assert.NotNil(clock, "time")
	assert.NotNil(tel, "telemetry")
	assert.NotEmptyStr(opts.PortalURL, "portal url")
	assert.Positive(opts.MaxAttempts, "max attempts")
	assert.Positive(opts.WaitTimeout, "wait timeout")

	s := &Scraper{
		runtime: runtime,
		solver:  solver,
		time:    clock,
		tel:     telemetry.NewScopedAPI("casestatus", tel),
		opts:    opts,
	}
	if opts.RequestsPerMinute > 0 {
		s.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	meter := otel.Meter("casestatus.scrapers.casestatus")
	s.attemptCounter, _ = meter.Int64Counter(
		"casestatus.challenge_attempts",
		metric.WithDescription("Captcha attempts by outcome."),
	)
	s.resultCounter, _ = meter.Int64Counter(
		"casestatus.results",
		metric.WithDescription("Pipeline runs by result kind."),
	)
	return s
}

// Run executes q from a fresh browser session to a result, it never returns an error:
// every failure is mapped onto RESULT_NOT_FOUND or RESULT_FAILED.
func (s *Scraper) Run(ctx context.Context, q CaseQuery) (result CaseResult) {
	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.String("case_type", q.CaseType),
		attribute.String("case_number", q.CaseNumber),
		attribute.String("case_year", q.CaseYear),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("unexpected panic: %v", r)
			span.RecordError(err)
			span.SetStatus(codes.Error, "scraper panicked")
			s.tel.ReportBroken(report_scraper_run, err, q)
			result = CaseResult{Kind: RESULT_FAILED, Message: failedPrefix + err.Error()}
		}
		span.SetAttributes(attribute.String("result", result.Kind.String()))
		s.resultCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", result.Kind.String())))
	}()

	out, err := s.run(ctx, q)
	switch {
	case err == nil:
		out.Kind = RESULT_FOUND
		return out
	case errors.Is(err, ErrRecordAbsent):
		s.tel.ReportDebug("no record", q.CaseType, q.CaseNumber, q.CaseYear)
		return CaseResult{Kind: RESULT_NOT_FOUND, Message: NotFoundMessage, Attempts: out.Attempts}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "scrape failed")
	if errors.Is(err, ErrChallengeExhausted) {
		s.tel.ReportWarning(report_scraper_run, err, q)
	} else {
		s.tel.ReportBroken(report_scraper_run, err, q)
	}
	return CaseResult{
		Kind:     RESULT_FAILED,
		Message:  failedPrefix + err.Error(),
		Attempts: out.Attempts,
	}
}

func (s *Scraper) run(ctx context.Context, q CaseQuery) (CaseResult, error) {
	out := CaseResult{}

	if s.limiter != nil {
		err := s.limiter.Wait(ctx)
		if err != nil {
			return out, fmt.Errorf("wait for portal slot: %w", err)
		}
	}

	workdir, err := s.workdir()
	if err != nil {
		return out, err
	}
	// only removes the directory when nothing was downloaded into it
	defer os.Remove(workdir)

	sess, err := s.runtime.NewSession(ctx, browser.SessionConfig{
		Headless:      s.opts.Headless,
		DownloadDir:   workdir,
		ActionTimeout: s.opts.ActionTimeout,
	})
	if err != nil {
		return out, fmt.Errorf("start browser session: %w", err)
	}
	defer func() {
		err := sess.Close()
		if err != nil {
			s.tel.ReportWarning(report_scraper_session, fmt.Errorf("close: %w", err))
		}
	}()

	err = sess.Navigate(ctx, s.opts.PortalURL)
	if err != nil {
		return out, err
	}
	err = s.time.Sleep(ctx, s.opts.Settle)
	if err != nil {
		return out, err
	}

	err = s.submitForm(ctx, sess, q)
	if err != nil {
		return out, fmt.Errorf("fill form: %w", err)
	}

	attempts, accepted, err := s.resolveChallenge(ctx, sess, workdir)
	out.Attempts = attempts
	if err != nil {
		return out, err
	}
	if !accepted {
		return out, fmt.Errorf("%w after %d attempts", ErrChallengeExhausted, attempts)
	}

	err = sess.WaitFor(ctx, selectorResultTable, s.opts.WaitTimeout)
	if err != nil {
		return out, fmt.Errorf("wait for case details: %w", err)
	}

	out.Fields = s.extract(ctx, sess)
	out.DocumentPath = s.fetchDocument(ctx, sess)
	return out, nil
}

// workdir creates a directory private to one query, it holds the transient captcha images
// and the downloaded document so concurrent queries never collide.
func (s *Scraper) workdir() (string, error) {
	err := os.MkdirAll(s.opts.DownloadDir, 0755)
	if err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	dir, err := os.MkdirTemp(s.opts.DownloadDir, "case-*")
	if err != nil {
		return "", fmt.Errorf("create query dir: %w", err)
	}
	return dir, nil
}
