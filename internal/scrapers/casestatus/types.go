package casestatus

import (
	"errors"
	"strings"
)

var (
	// ErrRecordAbsent means the portal affirmatively reported that no case matches the query.
	ErrRecordAbsent = errors.New("no record found for the given case details")
	// ErrChallengeExhausted means no captcha guess was accepted within the attempt bound.
	ErrChallengeExhausted = errors.New("failed to solve captcha")
)

const (
	NotFoundMessage = "No record found for the given case details"
	failedPrefix    = "Scraping failed: "
)

// CaseQuery identifies a case the way the portal's lookup form does.
type CaseQuery struct {
	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number"`
	CaseYear   string `json:"case_year"`
}

// Missing returns the json names of the blank fields of q.
func (q CaseQuery) Missing() []string {
	var missing []string
	if strings.TrimSpace(q.CaseType) == "" {
		missing = append(missing, "case_type")
	}
	if strings.TrimSpace(q.CaseNumber) == "" {
		missing = append(missing, "case_number")
	}
	if strings.TrimSpace(q.CaseYear) == "" {
		missing = append(missing, "case_year")
	}
	return missing
}

// CaseFields are the values read off the result page, a nil field was absent on the page.
type CaseFields struct {
	Petitioner      *string `json:"petitioner"`
	Respondent      *string `json:"respondent"`
	FilingDate      *string `json:"filing_date"`
	NextHearingDate *string `json:"next_hearing_date"`
}

type ResultKind int

const (
	RESULT_FOUND ResultKind = iota
	RESULT_NOT_FOUND
	RESULT_FAILED
)

func (k ResultKind) String() string {
	switch k {
	case RESULT_FOUND:
		return "found"
	case RESULT_NOT_FOUND:
		return "not_found"
	case RESULT_FAILED:
		return "failed"
	}
	return "unknown"
}

// CaseResult is the outcome of one pipeline run. Fields is only meaningful for RESULT_FOUND,
// Message only for the other kinds.
type CaseResult struct {
	Kind     ResultKind
	Fields   CaseFields
	Message  string
	Attempts int
	// DocumentPath is where the case document was saved, empty when it could not be fetched.
	DocumentPath string
}

type ChallengeOutcome int

const (
	OUTCOME_INDETERMINATE ChallengeOutcome = iota
	OUTCOME_ACCEPTED
	OUTCOME_MISMATCHED
	OUTCOME_RECORD_ABSENT
)

func (o ChallengeOutcome) String() string {
	switch o {
	case OUTCOME_ACCEPTED:
		return "accepted"
	case OUTCOME_MISMATCHED:
		return "mismatched"
	case OUTCOME_RECORD_ABSENT:
		return "record-absent"
	}
	return "indeterminate"
}

// ChallengeAttempt is the state of a single captcha attempt, it is discarded once the
// attempt is classified.
type ChallengeAttempt struct {
	Ordinal   int
	ImagePath string
	Guess     string
	Outcome   ChallengeOutcome
}

const (
	markerRecordAbsent = "No record found"
	markerMismatch     = "Captcha not matching"
)

// ClassifySearchResult interprets the content of the search result message container, it is
// the only place that looks at the portal's message strings.
func ClassifySearchResult(content string) ChallengeOutcome {
	switch {
	case strings.Contains(content, markerRecordAbsent):
		return OUTCOME_RECORD_ABSENT
	case strings.Contains(content, markerMismatch):
		return OUTCOME_MISMATCHED
	}
	return OUTCOME_ACCEPTED
}
