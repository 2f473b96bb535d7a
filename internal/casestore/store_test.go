package casestore

import (
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/db"
	"casestatus-backend/internal/scrapers/casestatus"
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func str(s string) *string {
	return &s
}

func TestStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	database, err := db.Config{File: ":memory:"}.Open(ctx)
	require.NoError(t, err)
	defer database.Close()

	clock := chrono.NewFake(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	store := NewStore(database, clock)

	query := casestatus.CaseQuery{CaseType: "WP", CaseNumber: "123", CaseYear: "2024"}
	found := casestatus.CaseResult{
		Kind: casestatus.RESULT_FOUND,
		Fields: casestatus.CaseFields{
			Petitioner: str("ARUN KUMAR"),
			Respondent: str("STATE OF TAMIL NADU"),
			FilingDate: str("05/01/2024"),
		},
		Attempts:     3,
		DocumentPath: "downloads/case-1/order.pdf",
	}

	{
		_, err := store.Get(ctx, "job-1")
		require.ErrorIs(t, err, ErrNotFound)
	}
	{
		require.NoError(t, store.Save(ctx, "job-1", query, found))
		// a repeated save of the same job is a no-op
		require.NoError(t, store.Save(ctx, "job-1", query, casestatus.CaseResult{Kind: casestatus.RESULT_FOUND}))

		record, err := store.Get(ctx, "job-1")
		require.NoError(t, err)
		expected := Record{
			JobID:        "job-1",
			Query:        query,
			Fields:       found.Fields,
			DocumentPath: "downloads/case-1/order.pdf",
			Attempts:     3,
			CreatedAt:    clock.Now(),
		}
		require.Empty(t, cmp.Diff(expected, record))
	}
	{
		err := store.Save(ctx, "job-2", query, casestatus.CaseResult{Kind: casestatus.RESULT_NOT_FOUND})
		require.Error(t, err)
	}
	{
		clock.Advance(time.Hour)
		require.NoError(t, store.Save(ctx, "job-3", query, found))

		records, err := store.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 2)
		require.Equal(t, "job-3", records[0].JobID)

		history, err := store.History(ctx, query)
		require.NoError(t, err)
		require.Len(t, history, 2)

		removed, err := store.Prune(ctx, time.Minute*30)
		require.NoError(t, err)
		require.EqualValues(t, 1, removed)

		records, err = store.List(ctx, 10)
		require.NoError(t, err)
		require.Len(t, records, 1)
	}
}
