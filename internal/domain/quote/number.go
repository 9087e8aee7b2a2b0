package quote

import (
	"crypto/rand"
	"time"
)

const numberPrefix = "TQ"

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewNumber generates a human-readable quote number: TQ + yymmdd + four
// random alphanumerics. Uniqueness is enforced by the repository; callers
// regenerate on collision.
func NewNumber(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	suffix := make([]byte, 4)
	for i, b := range buf {
		suffix[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}
	return numberPrefix + now.UTC().Format("060102") + string(suffix)
}
