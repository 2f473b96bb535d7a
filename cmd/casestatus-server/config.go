package main

import (
	"casestatus-backend/internal/components/telemetry"
	"casestatus-backend/internal/db"
	"casestatus-backend/internal/scrapers/casestatus"
	"time"
)

type PortalConfig struct {
	Url string `json:"url"`
}

type BrowserConfig struct {
	Engine string `json:"engine"`
	// nil means headless, a plain bool false would be lost when merging over the defaults
	Headless *bool `json:"headless"`
	Install  bool  `json:"install"`
}

type DownloadsConfig struct {
	Dir string `json:"dir"`
}

type ScraperConfig struct {
	MaxAttempts        int `json:"max_attempts"`
	SettleMs           int `json:"settle_ms"`
	SubmitSettleMs     int `json:"submit_settle_ms"`
	WaitTimeoutSeconds int `json:"wait_timeout_seconds"`
	RequestsPerMinute  int `json:"requests_per_minute"`
}

type JobsConfig struct {
	Workers    int    `json:"workers"`
	QueueSize  int    `json:"queue_size"`
	TtlMinutes int    `json:"ttl_minutes"`
	SweepCron  string `json:"sweep_cron"`
	// RetainDays prunes persisted cases older than this many days, 0 keeps them forever.
	RetainDays int `json:"retain_days"`
}

type Config struct {
	ListenPort int              `json:"listen_port"`
	Portal     PortalConfig     `json:"portal"`
	Browser    BrowserConfig    `json:"browser"`
	Downloads  DownloadsConfig  `json:"downloads"`
	Scraper    ScraperConfig    `json:"scraper"`
	Jobs       JobsConfig       `json:"jobs"`
	Database   db.Config        `json:"database"`
	Telemetry  telemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		ListenPort: 8000,
		Portal:     PortalConfig{Url: casestatus.DefaultPortalURL},
		Browser:    BrowserConfig{Engine: "firefox"},
		Downloads:  DownloadsConfig{Dir: "downloads"},
		Scraper: ScraperConfig{
			MaxAttempts:        5,
			SettleMs:           1000,
			SubmitSettleMs:     2000,
			WaitTimeoutSeconds: 70,
		},
		Jobs: JobsConfig{
			Workers:    2,
			QueueSize:  100,
			TtlMinutes: 60,
			SweepCron:  "@every 10m",
		},
		Database: db.Config{File: "state/cases.db"},
	}
}

func (c Config) scraperOptions() casestatus.Options {
	opts := casestatus.DefaultOptions()
	opts.PortalURL = c.Portal.Url
	opts.Headless = c.Browser.Headless == nil || *c.Browser.Headless
	opts.DownloadDir = c.Downloads.Dir
	opts.MaxAttempts = c.Scraper.MaxAttempts
	opts.Settle = time.Duration(c.Scraper.SettleMs) * time.Millisecond
	opts.SubmitSettle = time.Duration(c.Scraper.SubmitSettleMs) * time.Millisecond
	opts.WaitTimeout = time.Duration(c.Scraper.WaitTimeoutSeconds) * time.Second
	opts.RequestsPerMinute = c.Scraper.RequestsPerMinute
	return opts
}
