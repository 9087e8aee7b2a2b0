package ginserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleTime(t *testing.T) {
	t.Run("accepts RFC3339", func(t *testing.T) {
		got, ok := parseFlexibleTime("2026-03-01T15:04:05+02:00")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, time.March, 1, 13, 4, 5, 0, time.UTC), got)
	})

	t.Run("accepts bare dates", func(t *testing.T) {
		got, ok := parseFlexibleTime("2026-03-01")
		require.True(t, ok)
		assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("rejects everything else", func(t *testing.T) {
		_, ok := parseFlexibleTime("")
		assert.False(t, ok)
		_, ok = parseFlexibleTime("01/03/2026")
		assert.False(t, ok)
	})
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 42, parseInt("42"))
	assert.Equal(t, 42, parseInt(" 42 "))
	assert.Equal(t, 0, parseInt("-5"), "negatives clamp to zero")
	assert.Equal(t, 0, parseInt("abc"))

	assert.Equal(t, 10, parseIntWithDefault("", 10))
	assert.Equal(t, 3, parseIntWithDefault("3", 10))
	assert.Equal(t, 10, parseIntWithDefault("0", 10))
}
