package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	database, err := Config{File: ":memory:"}.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestCreateCaseIsIdempotentOnJobID(t *testing.T) {
	ctx := context.Background()
	qry := New(openTestDB(t))

	params := CreateCaseParams{
		JobID:      "job-1",
		CaseType:   "WP",
		CaseNumber: "123",
		CaseYear:   "2024",
		Petitioner: sql.NullString{String: "ARUN KUMAR", Valid: true},
		Attempts:   2,
		CreatedAt:  100,
	}
	n, err := qry.CreateCase(ctx, params)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	params.Petitioner = sql.NullString{String: "SOMEONE ELSE", Valid: true}
	n, err = qry.CreateCase(ctx, params)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	row, err := qry.GetCaseByJobID(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, "ARUN KUMAR", row.Petitioner.String)
	require.False(t, row.Respondent.Valid)
	require.EqualValues(t, 2, row.Attempts)

	_, err = qry.GetCaseByJobID(ctx, "job-2")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListCases(t *testing.T) {
	ctx := context.Background()
	qry := New(openTestDB(t))

	for i, jobID := range []string{"a", "b", "c"} {
		_, err := qry.CreateCase(ctx, CreateCaseParams{
			JobID:      jobID,
			CaseType:   "WP",
			CaseNumber: "123",
			CaseYear:   "2024",
			CreatedAt:  int64(100 + i),
		})
		require.NoError(t, err)
	}

	rows, err := qry.ListCases(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "c", rows[0].JobID)
	require.Equal(t, "b", rows[1].JobID)

	rows, err = qry.ListCasesByQuery(ctx, ListCasesByQueryParams{CaseType: "WP", CaseNumber: "123", CaseYear: "2024"})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	n, err := qry.DeleteCasesBefore(ctx, 102)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestOpenFileCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "cases.db")
	database, err := Config{File: path}.Open(context.Background())
	require.NoError(t, err)
	defer database.Close()
	require.FileExists(t, path)
}

func TestOpenRequiresTarget(t *testing.T) {
	_, err := Config{}.Open(context.Background())
	require.Error(t, err)
}
