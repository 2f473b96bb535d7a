package captcha

import (
	"bytes"
	"casestatus-backend/internal/components/telemetry"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	text  string
	err   error
	panic bool
	calls int
}

func (f *fakeRecognizer) Recognize(ctx context.Context, png []byte) (string, error) {
	f.calls++
	if f.panic {
		panic("tesseract crashed")
	}
	return f.text, f.err
}

type fixedRandom struct{}

func (fixedRandom) Digits(n int) string {
	return "987654321"[:n]
}

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func challengePNG(t testing.TB) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 12, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 12; x++ {
			c := color.RGBA{R: 230, G: 230, B: 230, A: 255}
			if x%3 == 0 {
				c = color.RGBA{R: 20, G: 20, B: 60, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSolveTruncatesLongText(t *testing.T) {
	table := []struct {
		text     string
		expected string
	}{
		{text: "123456", expected: "123456"},
		{text: "12345678", expected: "123456"},
		{text: " 9081726354 \n", expected: "908172"},
		{text: "12 34 56 78", expected: "123456"},
	}

	for _, row := range table {
		rec := &fakeRecognizer{text: row.text}
		solver := NewSolver(rec, &telemetry.Recorder{})

		first := solver.Solve(context.Background(), challengePNG(t))
		second := solver.Solve(context.Background(), challengePNG(t))
		require.Equal(t, row.expected, first)
		require.Equal(t, first, second)
	}
}

func TestSolvePadsShortText(t *testing.T) {
	for _, text := range []string{"", "4", "12", "4711", "12345"} {
		rec := &fakeRecognizer{text: text}

		guess := NewSolver(rec, &telemetry.Recorder{}).Solve(context.Background(), challengePNG(t))
		require.Regexp(t, sixDigits, guess)
		require.Equal(t, text, guess[:len(text)])

		fixed := NewSolver(rec, &telemetry.Recorder{}, WithRandomAPI(fixedRandom{})).
			Solve(context.Background(), challengePNG(t))
		require.Equal(t, text+"987654321"[:AnswerLength-len(text)], fixed)
	}
}

func TestSolveDropsNonDigits(t *testing.T) {
	rec := &fakeRecognizer{text: "1a2b3"}
	guess := NewSolver(rec, &telemetry.Recorder{}, WithRandomAPI(fixedRandom{})).
		Solve(context.Background(), challengePNG(t))
	require.Equal(t, "123987", guess)
}

func TestSolveNeverFails(t *testing.T) {
	t.Run("recognizer error", func(t *testing.T) {
		tel := &telemetry.Recorder{}
		rec := &fakeRecognizer{err: errors.New("tesseract: no data")}
		guess := NewSolver(rec, tel).Solve(context.Background(), challengePNG(t))
		require.Regexp(t, sixDigits, guess)
		require.Len(t, tel.Reports("warning", report_solver_recognize), 1)
	})

	t.Run("recognizer panic", func(t *testing.T) {
		rec := &fakeRecognizer{panic: true}
		guess := NewSolver(rec, &telemetry.Recorder{}).Solve(context.Background(), challengePNG(t))
		require.Regexp(t, sixDigits, guess)
	})

	t.Run("corrupt image", func(t *testing.T) {
		tel := &telemetry.Recorder{}
		rec := &fakeRecognizer{text: "123456"}
		guess := NewSolver(rec, tel).Solve(context.Background(), []byte("not an image"))
		require.Regexp(t, sixDigits, guess)
		require.Equal(t, 0, rec.calls)
		require.Len(t, tel.Reports("warning", report_solver_preprocess), 1)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := &fakeRecognizer{text: "123456"}
		guess := NewSolver(rec, &telemetry.Recorder{}).
			SolveFile(context.Background(), filepath.Join(t.TempDir(), "captcha.png"))
		require.Regexp(t, sixDigits, guess)
	})
}

func TestSolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captcha-1.png")
	require.NoError(t, os.WriteFile(path, challengePNG(t), 0600))

	rec := &fakeRecognizer{text: "246810"}
	guess := NewSolver(rec, &telemetry.Recorder{}).SolveFile(context.Background(), path)
	require.Equal(t, "246810", guess)
}

func TestDefaultRandomDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		require.Regexp(t, sixDigits, defaultRandomAPI{}.Digits(AnswerLength))
	}
	require.Equal(t, "", defaultRandomAPI{}.Digits(0))
}
