package main

import (
	"casestatus-backend/internal/components/configutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// comments are allowed
		browser: { headless: false },
		scraper: { max_attempts: 3 },
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		listen_port: 9000,
	}`), 0644))

	cfg, err := configutil.ReadConfig(path, defaultConfig())
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.ListenPort)

	opts := cfg.scraperOptions()
	require.False(t, opts.Headless)
	require.Equal(t, 3, opts.MaxAttempts)
	require.Equal(t, time.Second, opts.Settle)
	require.Equal(t, time.Second*2, opts.SubmitSettle)
	require.Equal(t, time.Second*70, opts.WaitTimeout)
	require.Equal(t, "https://hcmadras.tn.gov.in/case_status_mas.php", opts.PortalURL)
}

func TestDefaultConfigScraperOptions(t *testing.T) {
	opts := defaultConfig().scraperOptions()
	require.True(t, opts.Headless)
	require.Equal(t, 5, opts.MaxAttempts)
	require.Equal(t, "downloads", opts.DownloadDir)
}
