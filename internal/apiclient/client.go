// Package apiclient talks to a running casestatus-server.
package apiclient

import (
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/components/telemetry"
	"casestatus-backend/internal/scrapers/casestatus"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrJobNotFound = errors.New("job not found")

type SearchResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type CaseResult struct {
	Petitioner      *string `json:"petitioner"`
	Respondent      *string `json:"respondent"`
	FilingDate      *string `json:"filing_date"`
	NextHearingDate *string `json:"next_hearing_date"`
}

type ResultResponse struct {
	Status string      `json:"status"`
	Result *CaseResult `json:"result"`
	Error  string      `json:"error"`
	Kind   string      `json:"kind"`
}

func (r ResultResponse) Finished() bool {
	return r.Status != "processing"
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type Client struct {
	http *resty.Client
	time chrono.API
}

func NewClient(baseURL string, clock chrono.API, tel telemetry.API) *Client {
	httpClient := resty.New()
	httpClient.SetBaseURL(baseURL)
	httpClient.SetTimeout(time.Second * 30)
	httpClient.SetHeader("accept", "application/json")
	telemetry.InstrumentResty(httpClient, telemetry.NewScopedAPI("apiclient", tel))

	return &Client{http: httpClient, time: clock}
}

func apiError(res *resty.Response) error {
	detail, ok := res.Error().(*errorResponse)
	if ok && detail.Detail != "" {
		return fmt.Errorf("%s: %s", res.Status(), detail.Detail)
	}
	return fmt.Errorf("unexpected response: %s", res.Status())
}

func (c *Client) Search(ctx context.Context, q casestatus.CaseQuery) (SearchResponse, error) {
	var out SearchResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(q).
		SetResult(&out).
		SetError(&errorResponse{}).
		Post("/search")
	if err != nil {
		return SearchResponse{}, err
	}
	if res.IsError() {
		return SearchResponse{}, apiError(res)
	}
	return out, nil
}

func (c *Client) Result(ctx context.Context, jobID string) (ResultResponse, error) {
	var out ResultResponse
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("job_id", jobID).
		SetResult(&out).
		SetError(&errorResponse{}).
		Get("/result/{job_id}")
	if err != nil {
		return ResultResponse{}, err
	}
	if res.StatusCode() == http.StatusNotFound {
		return ResultResponse{}, fmt.Errorf("%w: %s", ErrJobNotFound, jobID)
	}
	if res.IsError() {
		return ResultResponse{}, apiError(res)
	}
	return out, nil
}

// Wait polls the job every interval until it is no longer processing.
func (c *Client) Wait(ctx context.Context, jobID string, interval time.Duration) (ResultResponse, error) {
	for {
		result, err := c.Result(ctx, jobID)
		if err != nil {
			return ResultResponse{}, err
		}
		if result.Finished() {
			return result, nil
		}
		err = c.time.Sleep(ctx, interval)
		if err != nil {
			return ResultResponse{}, err
		}
	}
}
