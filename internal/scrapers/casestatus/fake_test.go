package casestatus

import (
	"casestatus-backend/internal/browser"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	verdictMismatch = `<span style="color:red">Captcha not matching</span>`
	verdictAbsent   = `<span>No record found</span>`
	verdictAccepted = ``
)

// fakePortal scripts the portal's behaviour for one or more sessions.
type fakePortal struct {
	mu sync.Mutex

	// verdicts[i] is the search result content after the i-th submitted guess, the last
	// entry repeats once the list runs out.
	verdicts []string
	page     string

	// screenshotErrs[i] fails the i-th screenshot.
	screenshotErrs map[int]error
	waitErrs       map[string]error
	downloadErr    error
	sessionErr     error

	calls       []string
	submitted   []string
	screenshots int
	sessions    int
	closed      int
	downloads   []string
	configs     []browser.SessionConfig
}

func (p *fakePortal) NewSession(ctx context.Context, cfg browser.SessionConfig) (browser.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sessionErr != nil {
		return nil, p.sessionErr
	}
	p.sessions++
	p.configs = append(p.configs, cfg)
	return &fakeSession{portal: p, cfg: cfg}, nil
}

func (p *fakePortal) Close() error { return nil }

func (p *fakePortal) record(call string) {
	p.calls = append(p.calls, call)
}

func (p *fakePortal) count(prefix string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type fakeSession struct {
	portal *fakePortal
	cfg    browser.SessionConfig
	values map[string]string
	closed bool
}

func (s *fakeSession) lock() func() {
	s.portal.mu.Lock()
	return s.portal.mu.Unlock
}

func (s *fakeSession) set(selector, value string) {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[selector] = value
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	defer s.lock()()
	s.portal.record("navigate " + url)
	return nil
}

func (s *fakeSession) Fill(ctx context.Context, selector, value string) error {
	defer s.lock()()
	s.portal.record("fill " + selector)
	s.set(selector, value)
	return nil
}

func (s *fakeSession) Type(ctx context.Context, selector, text string) error {
	defer s.lock()()
	s.portal.record("type " + selector)
	s.set(selector, s.values[selector]+text)
	return nil
}

func (s *fakeSession) Clear(ctx context.Context, selector string) error {
	defer s.lock()()
	s.portal.record("clear " + selector)
	s.set(selector, "")
	return nil
}

func (s *fakeSession) Press(ctx context.Context, selector, key string) error {
	defer s.lock()()
	s.portal.record("press " + key)
	return nil
}

func (s *fakeSession) Click(ctx context.Context, selector string) error {
	defer s.lock()()
	s.portal.record("click " + selector)
	if selector == selectorSubmit {
		s.portal.submitted = append(s.portal.submitted, s.values[selectorCaptchaInput])
	}
	return nil
}

func (s *fakeSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	defer s.lock()()
	s.portal.record("wait " + selector)
	return s.portal.waitErrs[selector]
}

func (s *fakeSession) ScreenshotElement(ctx context.Context, selector string) ([]byte, error) {
	defer s.lock()()
	s.portal.record("screenshot")
	s.portal.screenshots++
	if err := s.portal.screenshotErrs[s.portal.screenshots]; err != nil {
		return nil, err
	}
	return []byte("png"), nil
}

func (s *fakeSession) InnerHTML(ctx context.Context, selector string) (string, error) {
	defer s.lock()()
	s.portal.record("inner-html " + selector)
	if len(s.portal.verdicts) == 0 {
		return verdictAccepted, nil
	}
	i := max(len(s.portal.submitted)-1, 0)
	if i >= len(s.portal.verdicts) {
		i = len(s.portal.verdicts) - 1
	}
	return s.portal.verdicts[i], nil
}

func (s *fakeSession) Content(ctx context.Context) (string, error) {
	defer s.lock()()
	s.portal.record("content")
	return s.portal.page, nil
}

func (s *fakeSession) Download(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	defer s.lock()()
	s.portal.record("download " + selector)
	if s.portal.downloadErr != nil {
		return "", s.portal.downloadErr
	}
	path := filepath.Join(s.cfg.DownloadDir, "order.pdf")
	err := os.WriteFile(path, []byte("%PDF-1.4"), 0644)
	if err != nil {
		return "", err
	}
	s.portal.downloads = append(s.portal.downloads, path)
	return path, nil
}

func (s *fakeSession) Close() error {
	defer s.lock()()
	if !s.closed {
		s.closed = true
		s.portal.closed++
	}
	return nil
}

// fakeSolver returns its guesses in order, repeating the last one.
type fakeSolver struct {
	mu      sync.Mutex
	guesses []string
	// existed records whether the image was on disk when each guess was made.
	existed []bool
	paths   []string
}

func (s *fakeSolver) SolveFile(ctx context.Context, path string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(path)
	s.existed = append(s.existed, err == nil)
	s.paths = append(s.paths, path)

	if len(s.guesses) == 0 {
		return "123456"
	}
	i := len(s.paths) - 1
	if i >= len(s.guesses) {
		i = len(s.guesses) - 1
	}
	return s.guesses[i]
}

// resultPage renders a case details page with the given hearing date column.
func resultPage(petitioner, respondent, filing string, hearingDates ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table id="example"><tbody>`)
	fmt.Fprintf(&b, `<tr><td>Filing No</td><td>1/2024</td><td>Filing Date</td><td> %s </td></tr>`, filing)
	for i := 2; i <= 5; i++ {
		fmt.Fprintf(&b, `<tr><td>row %d</td><td>value %d</td></tr>`, i, i)
	}
	fmt.Fprintf(&b, `<tr><td>Petitioner</td><td>%s</td></tr>`, petitioner)
	fmt.Fprintf(&b, `<tr><td>Respondent</td><td>%s</td></tr>`, respondent)
	b.WriteString(`</tbody></table><table id="example7"><tr><th>#</th><th>Judge</th><th>Stage</th><th>Purpose</th><th>Hearing</th></tr>`)
	for i, date := range hearingDates {
		fmt.Fprintf(&b, `<tr><td>%d</td><td>J</td><td>S</td><td>P</td><td>%s</td></tr>`, i+1, date)
	}
	b.WriteString(`</table><form action='order_view.php'><button class="pdf_but">PDF</button></form></body></html>`)
	return b.String()
}
