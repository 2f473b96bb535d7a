package browser

import (
	"casestatus-backend/internal/components/telemetry"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	pw "github.com/playwright-community/playwright-go"
)

const (
	report_runtime_start  = "runtime.start"
	report_session_launch = "session.launch"
	report_session_close  = "session.close"
)

const defaultActionTimeout = time.Second * 5

type RuntimeOptions struct {
	// Engine is "firefox" or "chromium".
	Engine string
	// Install downloads the driver and browser binaries before starting.
	Install bool
}

// PlaywrightRuntime launches one browser process per session.
type PlaywrightRuntime struct {
	pw     *pw.Playwright
	engine pw.BrowserType
	tel    telemetry.API

	mu     sync.Mutex
	closed bool
}

func NewPlaywrightRuntime(opts RuntimeOptions, tel telemetry.API) (*PlaywrightRuntime, error) {
	tel = telemetry.NewScopedAPI("browser", tel)

	engine := opts.Engine
	if engine == "" {
		engine = "firefox"
	}
	if engine != "firefox" && engine != "chromium" {
		return nil, fmt.Errorf("unsupported browser engine %q", engine)
	}

	if opts.Install {
		err := pw.Install(&pw.RunOptions{Browsers: []string{engine}})
		if err != nil {
			tel.ReportBroken(report_runtime_start, fmt.Errorf("install: %w", err))
			return nil, fmt.Errorf("%w: install %s: %w", ErrUnavailable, engine, err)
		}
	}

	instance, err := pw.Run()
	if err != nil {
		tel.ReportBroken(report_runtime_start, err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	r := &PlaywrightRuntime{pw: instance, tel: tel}
	switch engine {
	case "chromium":
		r.engine = instance.Chromium
	default:
		r.engine = instance.Firefox
	}
	return r, nil
}

func (r *PlaywrightRuntime) NewSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := r.engine.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(cfg.Headless),
	})
	if err != nil {
		r.tel.ReportBroken(report_session_launch, err)
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	bctx, err := b.NewContext(pw.BrowserNewContextOptions{
		AcceptDownloads: pw.Bool(true),
	})
	if err != nil {
		b.Close()
		r.tel.ReportBroken(report_session_launch, fmt.Errorf("new context: %w", err))
		return nil, fmt.Errorf("new browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		b.Close()
		r.tel.ReportBroken(report_session_launch, fmt.Errorf("new page: %w", err))
		return nil, fmt.Errorf("new page: %w", err)
	}

	actionTimeout := cfg.ActionTimeout
	if actionTimeout <= 0 {
		actionTimeout = defaultActionTimeout
	}
	page.SetDefaultTimeout(float64(actionTimeout.Milliseconds()))

	return &playwrightSession{
		browser:     b,
		page:        page,
		downloadDir: cfg.DownloadDir,
		tel:         r.tel,
	}, nil
}

func (r *PlaywrightRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.pw.Stop()
}

type playwrightSession struct {
	browser     pw.Browser
	page        pw.Page
	downloadDir string
	tel         telemetry.API

	closeOnce sync.Once
	closed    bool
}

// translateError maps playwright failures onto this package's sentinels, keeping the
// original error in the chain.
func translateError(selector string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, pw.ErrTimeout):
		return fmt.Errorf("%s: %w: %w", selector, ErrElementNotFound, err)
	case errors.Is(err, pw.ErrTargetClosed):
		return fmt.Errorf("%s: %w: %w", selector, ErrSessionClosed, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}

func (s *playwrightSession) locator(ctx context.Context, selector string) (pw.Locator, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.page.Locator(selector).First(), nil
}

func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.page.Goto(url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateLoad,
		Timeout:   pw.Float(60_000),
	})
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *playwrightSession) Fill(ctx context.Context, selector, value string) error {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return err
	}
	return translateError(selector, loc.Fill(value))
}

func (s *playwrightSession) Type(ctx context.Context, selector, text string) error {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return err
	}
	return translateError(selector, loc.PressSequentially(text))
}

func (s *playwrightSession) Clear(ctx context.Context, selector string) error {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return err
	}
	return translateError(selector, loc.Clear())
}

func (s *playwrightSession) Press(ctx context.Context, selector, key string) error {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return err
	}
	return translateError(selector, loc.Press(key))
}

func (s *playwrightSession) Click(ctx context.Context, selector string) error {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return err
	}
	return translateError(selector, loc.Click())
}

func (s *playwrightSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return err
	}
	err = loc.WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateAttached,
		Timeout: pw.Float(float64(timeout.Milliseconds())),
	})
	if errors.Is(err, pw.ErrTimeout) {
		return fmt.Errorf("%s after %s: %w", selector, timeout, ErrTimeout)
	}
	return translateError(selector, err)
}

func (s *playwrightSession) ScreenshotElement(ctx context.Context, selector string) ([]byte, error) {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return nil, err
	}
	png, err := loc.Screenshot(pw.LocatorScreenshotOptions{
		Type: pw.ScreenshotTypePng,
	})
	if err != nil {
		return nil, translateError(selector, err)
	}
	return png, nil
}

func (s *playwrightSession) InnerHTML(ctx context.Context, selector string) (string, error) {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return "", err
	}
	html, err := loc.InnerHTML()
	if err != nil {
		return "", translateError(selector, err)
	}
	return html, nil
}

func (s *playwrightSession) Content(ctx context.Context) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.page.Content()
}

func (s *playwrightSession) Download(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	loc, err := s.locator(ctx, selector)
	if err != nil {
		return "", err
	}
	if s.downloadDir == "" {
		return "", fmt.Errorf("download %s: no download directory configured", selector)
	}

	download, err := s.page.ExpectDownload(func() error {
		return loc.Click()
	}, pw.PageExpectDownloadOptions{
		Timeout: pw.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, pw.ErrTimeout) {
			return "", fmt.Errorf("download %s after %s: %w", selector, timeout, ErrTimeout)
		}
		return "", translateError(selector, err)
	}

	path := filepath.Join(s.downloadDir, filepath.Base(download.SuggestedFilename()))
	err = download.SaveAs(path)
	if err != nil {
		return "", fmt.Errorf("save download: %w", err)
	}
	return path, nil
}

func (s *playwrightSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed = true
		err = s.browser.Close()
		if err != nil {
			s.tel.ReportWarning(report_session_close, err)
		}
	})
	return err
}
