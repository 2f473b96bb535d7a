// Package casestore keeps the results of successful lookups.
package casestore

import (
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/db"
	"casestatus-backend/internal/scrapers/casestatus"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("case record not found")

type Store struct {
	qry  *db.Queries
	time chrono.API
}

func NewStore(database *sql.DB, clock chrono.API) Store {
	return Store{
		qry:  db.New(database),
		time: clock,
	}
}

type Record struct {
	JobID        string
	Query        casestatus.CaseQuery
	Fields       casestatus.CaseFields
	DocumentPath string
	Attempts     int
	CreatedAt    time.Time
}

// Save records a found result under jobID, saving the same job twice keeps the first record.
func (s Store) Save(ctx context.Context, jobID string, q casestatus.CaseQuery, result casestatus.CaseResult) error {
	if result.Kind != casestatus.RESULT_FOUND {
		return fmt.Errorf("only found results are stored, got %s", result.Kind)
	}
	_, err := s.qry.CreateCase(ctx, db.CreateCaseParams{
		JobID:           jobID,
		CaseType:        q.CaseType,
		CaseNumber:      q.CaseNumber,
		CaseYear:        q.CaseYear,
		Petitioner:      nullString(result.Fields.Petitioner),
		Respondent:      nullString(result.Fields.Respondent),
		FilingDate:      nullString(result.Fields.FilingDate),
		NextHearingDate: nullString(result.Fields.NextHearingDate),
		DocumentPath:    sql.NullString{String: result.DocumentPath, Valid: result.DocumentPath != ""},
		Attempts:        int64(result.Attempts),
		CreatedAt:       s.time.Now().Unix(),
	})
	return err
}

func (s Store) Get(ctx context.Context, jobID string) (Record, error) {
	row, err := s.qry.GetCaseByJobID(ctx, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	return recordFromRow(row), nil
}

// List returns the most recent records first.
func (s Store) List(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.qry.ListCases(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

// History returns every stored result of the same case, most recent first.
func (s Store) History(ctx context.Context, q casestatus.CaseQuery) ([]Record, error) {
	rows, err := s.qry.ListCasesByQuery(ctx, db.ListCasesByQueryParams{
		CaseType:   q.CaseType,
		CaseNumber: q.CaseNumber,
		CaseYear:   q.CaseYear,
	})
	if err != nil {
		return nil, err
	}
	return recordsFromRows(rows), nil
}

// Prune deletes records older than the given age and returns how many were removed.
func (s Store) Prune(ctx context.Context, age time.Duration) (int64, error) {
	return s.qry.DeleteCasesBefore(ctx, s.time.Now().Add(-age).Unix())
}

func recordsFromRows(rows []db.Case) []Record {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = recordFromRow(row)
	}
	return records
}

func recordFromRow(row db.Case) Record {
	return Record{
		JobID: row.JobID,
		Query: casestatus.CaseQuery{
			CaseType:   row.CaseType,
			CaseNumber: row.CaseNumber,
			CaseYear:   row.CaseYear,
		},
		Fields: casestatus.CaseFields{
			Petitioner:      stringPtr(row.Petitioner),
			Respondent:      stringPtr(row.Respondent),
			FilingDate:      stringPtr(row.FilingDate),
			NextHearingDate: stringPtr(row.NextHearingDate),
		},
		DocumentPath: row.DocumentPath.String,
		Attempts:     int(row.Attempts),
		CreatedAt:    time.Unix(row.CreatedAt, 0).UTC(),
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
