package main

import (
	"casestatus-backend/internal/browser"
	"casestatus-backend/internal/components/telemetry"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRuntime struct {
	closed bool
}

func (r *fakeRuntime) NewSession(ctx context.Context, cfg browser.SessionConfig) (browser.Session, error) {
	return nil, browser.ErrUnavailable
}

func (r *fakeRuntime) Close() error {
	r.closed = true
	return nil
}

func TestRunClosesRuntimeOnLateFailure(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.File = filepath.Join(t.TempDir(), "cases.db")
	cfg.Jobs.SweepCron = "not a cron spec"

	runtime := &fakeRuntime{}
	err := run(context.Background(), cfg, func(tel telemetry.API) (browser.Runtime, error) {
		return runtime, nil
	})
	require.ErrorContains(t, err, "schedule job sweep")
	require.True(t, runtime.closed)
}

func TestRunReportsRuntimeFailure(t *testing.T) {
	cfg := defaultConfig()
	cfg.Database.File = filepath.Join(t.TempDir(), "cases.db")

	err := run(context.Background(), cfg, func(tel telemetry.API) (browser.Runtime, error) {
		return nil, browser.ErrUnavailable
	})
	require.True(t, errors.Is(err, browser.ErrUnavailable))
	require.ErrorContains(t, err, "start browser runtime")
}
