package casestatus

import (
	"casestatus-backend/internal/browser"
	"context"
)

// submitForm fills the lookup form. The case type field is an autocomplete the portal uses to
// enable the number and year fields, so it is committed with Enter and given time to settle
// before the other fields are touched.
func (s *Scraper) submitForm(ctx context.Context, sess browser.Session, q CaseQuery) error {
	ctx, span := tracer.Start(ctx, "submitForm")
	defer span.End()

	err := sess.Clear(ctx, selectorCaseType)
	if err != nil {
		return err
	}
	err = sess.Type(ctx, selectorCaseType, q.CaseType)
	if err != nil {
		return err
	}
	err = s.time.Sleep(ctx, s.opts.Settle)
	if err != nil {
		return err
	}
	err = sess.Press(ctx, selectorCaseType, "Enter")
	if err != nil {
		return err
	}
	err = s.time.Sleep(ctx, s.opts.Settle)
	if err != nil {
		return err
	}

	err = sess.Type(ctx, selectorCaseNumber, q.CaseNumber)
	if err != nil {
		return err
	}
	return sess.Type(ctx, selectorCaseYear, q.CaseYear)
}
