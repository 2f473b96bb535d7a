package casestatus

import (
	"casestatus-backend/internal/browser"
	"context"
)

// fetchDocument downloads the case document, it is best effort: failures are reported and an
// empty path is returned.
func (s *Scraper) fetchDocument(ctx context.Context, sess browser.Session) string {
	ctx, span := tracer.Start(ctx, "fetchDocument")
	defer span.End()

	err := sess.WaitFor(ctx, selectorDocumentForm, s.opts.WaitTimeout)
	if err != nil {
		span.RecordError(err)
		s.tel.ReportWarning(report_fetch_document, err)
		return ""
	}
	path, err := sess.Download(ctx, selectorDocumentButton, s.opts.WaitTimeout)
	if err != nil {
		span.RecordError(err)
		s.tel.ReportWarning(report_fetch_document, err)
		return ""
	}
	s.tel.ReportDebug("document saved", path)
	return path
}
