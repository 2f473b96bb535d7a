package telemetry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPIPrefixesIds(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("scraper", rec)

	scoped.ReportWarning("challenge.attempt", errors.New("stale element"))
	scoped.ReportBroken("run", "boom")
	scoped.ReportCount("challenge.attempts", 3)

	warnings := rec.Reports("warning", "challenge.attempt")
	require.Len(t, warnings, 1)
	require.Equal(t, "scraper: challenge.attempt", warnings[0].ID)
	require.Len(t, rec.Reports("broken", "scraper: run"), 1)
	require.Equal(t, []any{int64(3)}, rec.Reports("count", "attempts")[0].Params)
}

func TestInstrumentResty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec)

	_, err := client.R().Get(srv.URL)
	require.NoError(t, err)
	require.Len(t, rec.Reports("debug", report_resty_request), 1)
	require.Len(t, rec.Reports("debug", report_resty_response), 1)

	_, err = client.R().Get("http://127.0.0.1:0/unreachable")
	require.Error(t, err)
	require.Len(t, rec.Reports("broken", report_resty_response), 1)
}
