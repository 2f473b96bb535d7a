package main

import (
	"casestatus-backend/internal/components/serviceutil"
	"casestatus-backend/internal/components/telemetry"
	"context"
	"log/slog"
)

func InitTelemetry(ctx context.Context, verbose bool, cfg telemetry.Config) {
	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	providers, err := telemetry.Setup(ctx, "casestatus-server", cfg)
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		err := providers.Shutdown(context.Background())
		if err != nil {
			slog.Error("shutdown telemetry", "err", err)
		}
	}()
	telemetry.InstrumentPerfStats(ctx)
}
