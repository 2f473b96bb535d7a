package main

import (
	"casestatus-backend/internal/browser"
	"casestatus-backend/internal/captcha"
	"casestatus-backend/internal/captcha/tesseract"
	"casestatus-backend/internal/casestore"
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/components/configutil"
	"casestatus-backend/internal/components/serviceutil"
	"casestatus-backend/internal/components/telemetry"
	"casestatus-backend/internal/jobs"
	"casestatus-backend/internal/scrapers/casestatus"
	"casestatus-backend/internal/service"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the config file.")
	flag.Parse()

	telemetry.InitSlog(*verbose)
	ctx := serviceutil.SignalContext()

	cfg, err := configutil.ReadConfig(*configPath, defaultConfig())
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("no config file found, using defaults", "path", *configPath)
	} else if err != nil {
		serviceutil.Fatal("read config", err)
	}

	InitTelemetry(ctx, *verbose, cfg.Telemetry)

	err = run(ctx, cfg, func(tel telemetry.API) (browser.Runtime, error) {
		return browser.NewPlaywrightRuntime(browser.RuntimeOptions{
			Engine:  cfg.Browser.Engine,
			Install: cfg.Browser.Install,
		}, tel)
	})
	if err != nil {
		serviceutil.Fatal("run server", err)
	}
}

// run wires the server and blocks until ctx is done, everything it opens is
// closed before it returns.
func run(ctx context.Context, cfg Config, newRuntime func(tel telemetry.API) (browser.Runtime, error)) error {
	tel := telemetry.SlogAPI{}
	clock := chrono.NewStandardImpl()

	database, err := cfg.Database.Open(ctx)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()
	store := casestore.NewStore(database, clock)

	runtime, err := newRuntime(tel)
	if err != nil {
		return fmt.Errorf("start browser runtime: %w", err)
	}
	defer runtime.Close()

	solver := captcha.NewSolver(tesseract.NewRecognizer(), tel)
	scraper := casestatus.NewScraper(runtime, solver, clock, tel, cfg.scraperOptions())

	runner := jobs.NewRunner(
		jobs.NewMemoryStore(),
		scraper,
		clock,
		tel,
		jobs.WithWorkers(cfg.Jobs.Workers),
		jobs.WithQueueSize(cfg.Jobs.QueueSize),
		jobs.WithPersister(store),
	)
	runner.Start()
	defer runner.Stop()

	cron := chrono.NewStandardCron(tel)
	defer cron.Stop()
	ttl := time.Duration(cfg.Jobs.TtlMinutes) * time.Minute
	err = runner.ScheduleSweep(cron, cfg.Jobs.SweepCron, ttl)
	if err != nil {
		return fmt.Errorf("schedule job sweep: %w", err)
	}
	if cfg.Jobs.RetainDays > 0 {
		retain := time.Duration(cfg.Jobs.RetainDays) * time.Hour * 24
		err = cron.Cron(cfg.Jobs.SweepCron, func() {
			removed, err := store.Prune(context.Background(), retain)
			if err != nil {
				tel.ReportBroken("casestore.prune", err)
				return
			}
			tel.ReportCount("casestore.pruned", removed)
		})
		if err != nil {
			return fmt.Errorf("schedule case pruning: %w", err)
		}
	}

	svc := service.NewService(
		runner,
		tel,
		service.WithCaseHistory(store),
		service.WithHealthCheck(database.PingContext),
	)
	err = serviceutil.StartHttpServer(ctx, cfg.ListenPort, svc.Router())
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
