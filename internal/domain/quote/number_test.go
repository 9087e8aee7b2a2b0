package quote

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewNumber(t *testing.T) {
	now := time.Date(2026, time.March, 7, 14, 30, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^TQ260307[A-Z0-9]{4}$`)

	n := NewNumber(now)
	assert.Regexp(t, pattern, n)

	// Collisions are resolved by the caller, but back-to-back numbers
	// should almost never repeat.
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewNumber(now)] = true
	}
	assert.Greater(t, len(seen), 1)
}
