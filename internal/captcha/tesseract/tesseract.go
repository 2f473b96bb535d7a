// Package tesseract implements captcha.Recognizer with the tesseract engine through gosseract,
// kept apart so the solver can be built and tested without cgo.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

const digitAlphabet = "0123456789"

type Recognizer struct {
	clientFactory func() *gosseract.Client
}

func NewRecognizer() *Recognizer {
	return &Recognizer{clientFactory: gosseract.NewClient}
}

func (r *Recognizer) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := r.clientFactory()
	defer c.Close()

	if err := c.SetWhitelist(digitAlphabet); err != nil {
		return "", fmt.Errorf("set whitelist: %w", err)
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_WORD); err != nil {
		return "", fmt.Errorf("set page seg mode: %w", err)
	}
	if err := c.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.Join(strings.Fields(text), ""), nil
}
