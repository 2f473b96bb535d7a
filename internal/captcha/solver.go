// Package captcha turns the portal's numeric challenge image into a guess.
//
// The solver never fails: when recognition errors or comes up short, the guess is completed
// with random digits and the retry loop that submits it decides whether it was right.
package captcha

import (
	"casestatus-backend/internal/components/assert"
	"casestatus-backend/internal/components/telemetry"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"
)

const AnswerLength = 6

const (
	report_solver_preprocess = "solver.preprocess"
	report_solver_recognize  = "solver.recognize"
	report_solver_read       = "solver.read"
)

// Recognizer reads the text of a preprocessed PNG, restricted to digits.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

type Solver struct {
	rec  Recognizer
	rand RandomAPI
	tel  telemetry.API
}

type solverConfig struct {
	rand RandomAPI
}

type SolverOption func(cfg *solverConfig)

func WithRandomAPI(rand RandomAPI) SolverOption {
	return func(cfg *solverConfig) {
		cfg.rand = rand
	}
}

func NewSolver(rec Recognizer, tel telemetry.API, options ...SolverOption) Solver {
	assert.NotNil(rec, "recognizer")
	assert.NotNil(tel, "telemetry")

	cfg := solverConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	s := Solver{
		rec:  rec,
		rand: defaultRandomAPI{},
		tel:  telemetry.NewScopedAPI("captcha", tel),
	}
	if cfg.rand != nil {
		s.rand = cfg.rand
	}
	return s
}

// SolveFile solves the challenge image stored at path.
func (s Solver) SolveFile(ctx context.Context, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		s.tel.ReportWarning(report_solver_read, err, path)
		return s.rand.Digits(AnswerLength)
	}
	return s.Solve(ctx, data)
}

// Solve always returns AnswerLength digits.
func (s Solver) Solve(ctx context.Context, image []byte) string {
	processed, err := Preprocess(image)
	if err != nil {
		s.tel.ReportWarning(report_solver_preprocess, err)
		return s.rand.Digits(AnswerLength)
	}

	text, err := s.recognize(ctx, processed)
	if err != nil {
		s.tel.ReportWarning(report_solver_recognize, err)
		return s.rand.Digits(AnswerLength)
	}

	guess := s.complete(text)
	s.tel.ReportDebug("solved challenge", text, guess)
	return guess
}

func (s Solver) recognize(ctx context.Context, png []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recognizer panicked: %v", r)
		}
	}()
	return s.rec.Recognize(ctx, png)
}

// complete keeps the digits of text, truncating to the first AnswerLength of them or padding
// with random digits.
func (s Solver) complete(text string) string {
	digits := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return -1
		}
		return r
	}, text)

	if len(digits) >= AnswerLength {
		return digits[:AnswerLength]
	}
	return digits + s.rand.Digits(AnswerLength-len(digits))
}
