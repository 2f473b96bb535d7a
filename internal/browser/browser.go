// Package browser defines the browser capability the scrapers drive, and an adapter for it
// backed by playwright.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnavailable     = errors.New("browser runtime unavailable")
	ErrElementNotFound = errors.New("element not found")
	ErrTimeout         = errors.New("timed out waiting for element")
	ErrSessionClosed   = errors.New("browser session closed")
)

type SessionConfig struct {
	Headless bool
	// DownloadDir is where Session.Download saves files, it must exist.
	DownloadDir string
	// ActionTimeout bounds how long a single interaction looks for its element before failing
	// with ErrElementNotFound.
	ActionTimeout time.Duration
}

// Runtime creates browser sessions.
type Runtime interface {
	NewSession(ctx context.Context, cfg SessionConfig) (Session, error)
	Close() error
}

// Session is one live browser, exclusively owned by its caller until Close.
// Selectors are CSS selectors.
type Session interface {
	Navigate(ctx context.Context, url string) error
	// Fill replaces the value of an input.
	Fill(ctx context.Context, selector, value string) error
	// Type sends keystrokes to an input, appending to its value.
	Type(ctx context.Context, selector, text string) error
	Clear(ctx context.Context, selector string) error
	// Press sends a single named key ("Enter", "Tab") to an element.
	Press(ctx context.Context, selector, key string) error
	Click(ctx context.Context, selector string) error
	// WaitFor blocks until an element matching selector is attached to the DOM, returning
	// ErrTimeout after timeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	// ScreenshotElement returns a PNG of the element's rendered box.
	ScreenshotElement(ctx context.Context, selector string) ([]byte, error)
	InnerHTML(ctx context.Context, selector string) (string, error)
	// Content returns the serialized DOM of the current page.
	Content(ctx context.Context) (string, error)
	// Download clicks selector, waits up to timeout for the download it triggers and saves it
	// into the session's download directory, returning the saved path.
	Download(ctx context.Context, selector string, timeout time.Duration) (string, error)
	Close() error
}
