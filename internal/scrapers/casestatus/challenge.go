package casestatus

import (
	"casestatus-backend/internal/browser"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// resolveChallenge attempts the captcha up to MaxAttempts times, strictly one attempt at a time.
//
// It returns accepted=true as soon as the portal takes a guess and ErrRecordAbsent as soon as
// the portal says the case does not exist. Any other failure of an attempt only costs that
// attempt. accepted=false with a nil error means the attempts ran out.
func (s *Scraper) resolveChallenge(ctx context.Context, sess browser.Session, workdir string) (attempts int, accepted bool, err error) {
	ctx, span := tracer.Start(ctx, "resolveChallenge")
	defer span.End()

	for ordinal := 1; ordinal <= s.opts.MaxAttempts; ordinal++ {
		if err := ctx.Err(); err != nil {
			return ordinal - 1, false, err
		}

		attempt := ChallengeAttempt{
			Ordinal:   ordinal,
			ImagePath: filepath.Join(workdir, fmt.Sprintf("captcha-%d.png", ordinal)),
		}
		err := s.attemptChallenge(ctx, sess, &attempt)
		s.attemptCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", attempt.Outcome.String())))
		span.AddEvent("attempt", trace.WithAttributes(
			attribute.Int("ordinal", ordinal),
			attribute.String("outcome", attempt.Outcome.String()),
		))
		if err != nil {
			s.tel.ReportWarning(report_challenge_attempt, fmt.Errorf("attempt %d: %w", ordinal, err))
			continue
		}

		switch attempt.Outcome {
		case OUTCOME_RECORD_ABSENT:
			return ordinal, false, ErrRecordAbsent
		case OUTCOME_ACCEPTED:
			s.tel.ReportDebug("captcha accepted", ordinal)
			return ordinal, true, nil
		case OUTCOME_MISMATCHED:
			s.tel.ReportDebug("captcha mismatched", ordinal, attempt.Guess)
		}
	}

	return s.opts.MaxAttempts, false, nil
}

// attemptChallenge fills attempt.Guess and attempt.Outcome. An attempt without a guess is
// left indeterminate and nothing is submitted.
func (s *Scraper) attemptChallenge(ctx context.Context, sess browser.Session, attempt *ChallengeAttempt) error {
	image, err := sess.ScreenshotElement(ctx, selectorCaptchaImage)
	if err != nil {
		return fmt.Errorf("capture captcha: %w", err)
	}
	err = os.WriteFile(attempt.ImagePath, image, 0600)
	if err != nil {
		return fmt.Errorf("write captcha image: %w", err)
	}
	err = s.time.Sleep(ctx, s.opts.Settle)
	if err != nil {
		os.Remove(attempt.ImagePath)
		return err
	}

	attempt.Guess = s.solver.SolveFile(ctx, attempt.ImagePath)
	err = os.Remove(attempt.ImagePath)
	if err != nil {
		s.tel.ReportWarning(report_challenge_attempt, fmt.Errorf("remove captcha image: %w", err))
	}
	if attempt.Guess == "" {
		return nil
	}

	err = sess.Clear(ctx, selectorCaptchaInput)
	if err != nil {
		return err
	}
	err = sess.Fill(ctx, selectorCaptchaInput, attempt.Guess)
	if err != nil {
		return err
	}
	err = sess.Click(ctx, selectorSubmit)
	if err != nil {
		return err
	}

	err = s.time.Sleep(ctx, s.opts.SubmitSettle)
	if err != nil {
		return err
	}
	content, err := sess.InnerHTML(ctx, selectorSearchResult)
	if err != nil {
		return fmt.Errorf("read search result: %w", err)
	}

	attempt.Outcome = ClassifySearchResult(content)
	return nil
}
