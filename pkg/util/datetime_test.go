package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeToISO8601Str(t *testing.T) {
	ts := time.Date(2024, 3, 9, 17, 4, 5, 0, time.FixedZone("ICT", 7*3600))
	assert.Equal(t, "2024-03-09T10:04:05Z", TimeToISO8601Str(ts))
}

func TestFormatSince(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", FormatSince(now, now.Add(-300*time.Millisecond)))
	assert.Equal(t, "12s ago", FormatSince(now, now.Add(-12*time.Second)))
	assert.Equal(t, "3m ago", FormatSince(now, now.Add(-3*time.Minute-10*time.Second)))
	assert.Equal(t, "2h ago", FormatSince(now, now.Add(-2*time.Hour)))
}
