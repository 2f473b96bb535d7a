package chrono

import (
	"casestatus-backend/internal/components/telemetry"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewStandardImpl().Sleep(ctx, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFakeRecordsSleeps(t *testing.T) {
	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	require.NoError(t, fake.Sleep(context.Background(), time.Second))
	require.NoError(t, fake.Sleep(context.Background(), 2*time.Second))
	fake.Advance(time.Minute)

	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, fake.Sleeps())
	require.Equal(t, start.Add(time.Minute+3*time.Second), fake.Now())
}

func TestStandardCronRunsInUTC(t *testing.T) {
	cronner := NewStandardCron(&telemetry.Recorder{})
	defer cronner.Stop()

	require.Equal(t, time.UTC, cronner.cron.Location())
	require.NoError(t, cronner.Cron("@every 1h", func() {}))
	require.Error(t, cronner.Cron("not a spec", func() {}))
}
