package casestatus

import (
	"casestatus-backend/internal/browser"
	"casestatus-backend/internal/htmlutil"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func (s *Scraper) extract(ctx context.Context, sess browser.Session) CaseFields {
	ctx, span := tracer.Start(ctx, "extract")
	defer span.End()

	content, err := sess.Content(ctx)
	if err != nil {
		s.tel.ReportWarning(report_extract_field, fmt.Errorf("read page: %w", err))
		return CaseFields{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		s.tel.ReportWarning(report_extract_field, fmt.Errorf("parse page: %w", err))
		return CaseFields{}
	}

	fields := Extract(doc)
	if fields.Petitioner == nil || fields.Respondent == nil || fields.FilingDate == nil {
		s.tel.ReportWarning(report_extract_field, "case details table is missing fields")
	}
	return fields
}

// Extract reads the case fields out of a result page. Each field is looked up on its own, a
// missing element leaves only that field nil.
func Extract(doc *goquery.Document) CaseFields {
	return CaseFields{
		Petitioner:      textAt(doc, selectorPetitioner),
		Respondent:      textAt(doc, selectorRespondent),
		FilingDate:      textAt(doc, selectorFilingDate),
		NextHearingDate: lastHearingDate(doc),
	}
}

func textAt(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	text := htmlutil.SelectionText(sel)
	return &text
}

// lastHearingDate is the last non-blank entry of the hearing date column in the history table,
// rows are listed oldest first so this is the most recent listing.
func lastHearingDate(doc *goquery.Document) *string {
	var last *string
	doc.Find(selectorHearingDateCell).Each(func(_ int, cell *goquery.Selection) {
		text := htmlutil.SelectionText(cell)
		if text == "" {
			return
		}
		last = &text
	})
	return last
}
