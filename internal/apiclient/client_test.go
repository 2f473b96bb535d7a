package apiclient

import (
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/components/telemetry"
	"casestatus-backend/internal/scrapers/casestatus"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, polls *atomic.Int64) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var q casestatus.CaseQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		w.Header().Set("content-type", "application/json")
		if len(q.Missing()) > 0 {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"missing fields: case_year"}`))
			return
		}
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"job_id":"job-1","status":"processing"}`))
	})
	mux.HandleFunc("GET /result/{job_id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		if r.PathValue("job_id") != "job-1" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"detail":"Job not found"}`))
			return
		}
		if polls.Add(1) < 3 {
			w.Write([]byte(`{"status":"processing"}`))
			return
		}
		w.Write([]byte(`{"status":"complete","result":{"petitioner":"ARUN KUMAR","respondent":null,"filing_date":"05/01/2024","next_hearing_date":null,"error":null}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSearchAndWait(t *testing.T) {
	var polls atomic.Int64
	server := newServer(t, &polls)
	clock := chrono.NewFake(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	client := NewClient(server.URL, clock, &telemetry.Recorder{})
	ctx := context.Background()

	submitted, err := client.Search(ctx, casestatus.CaseQuery{CaseType: "WP", CaseNumber: "123", CaseYear: "2024"})
	require.NoError(t, err)
	require.Equal(t, SearchResponse{JobID: "job-1", Status: "processing"}, submitted)

	result, err := client.Wait(ctx, submitted.JobID, time.Second*2)
	require.NoError(t, err)
	require.Equal(t, "complete", result.Status)
	require.NotNil(t, result.Result)
	require.Equal(t, "ARUN KUMAR", *result.Result.Petitioner)
	require.Nil(t, result.Result.Respondent)

	require.EqualValues(t, 3, polls.Load())
	require.Equal(t, []time.Duration{time.Second * 2, time.Second * 2}, clock.Sleeps())
}

func TestErrors(t *testing.T) {
	var polls atomic.Int64
	server := newServer(t, &polls)
	client := NewClient(server.URL, chrono.NewStandardImpl(), &telemetry.Recorder{})
	ctx := context.Background()

	_, err := client.Search(ctx, casestatus.CaseQuery{CaseType: "WP", CaseNumber: "123"})
	require.ErrorContains(t, err, "missing fields: case_year")

	_, err = client.Result(ctx, "job-2")
	require.ErrorIs(t, err, ErrJobNotFound)
}
