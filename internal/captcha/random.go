package captcha

import (
	random "github.com/mazen160/go-random"
)

// RandomAPI is an abstraction over the random digits used to pad or replace a guess.
//
// note: fault injection point
type RandomAPI interface {
	Digits(n int) string
}

type defaultRandomAPI struct{}

func (defaultRandomAPI) Digits(n int) string {
	digits, err := random.Random(n, random.Digits, true)
	if err != nil {
		// the insecure path never fails
		digits, _ = random.Random(n, random.Digits, false)
	}
	return digits
}
