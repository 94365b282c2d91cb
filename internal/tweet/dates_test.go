package tweet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestParseDateNativeFormat(t *testing.T) {
	t.Parallel()

	got := ParseDate("Wed Jan 08 20:25:00 +0000 2026", fixedNow)
	require.Equal(t, 2026, got.Year())
	require.Equal(t, time.January, got.Month())
	require.Equal(t, 8, got.Day())
	require.Equal(t, 20, got.Hour())
}

func TestParseDateISOFallback(t *testing.T) {
	t.Parallel()

	got := ParseDate("2026-01-15T10:30:00Z", fixedNow)
	require.Equal(t, 2026, got.Year())
	require.Equal(t, time.January, got.Month())
	require.Equal(t, 15, got.Day())
	require.Equal(t, time.UTC, got.Location())
}

func TestParseDateISONoZone(t *testing.T) {
	t.Parallel()

	got := ParseDate("2026-01-15T10:30:00", fixedNow)
	require.Equal(t, 2026, got.Year())
	require.Equal(t, 10, got.Hour())
}

func TestParseDateInvalidFallsBackToNow(t *testing.T) {
	t.Parallel()

	got := ParseDate("not a date", fixedNow)
	require.Equal(t, fixedNow(), got)
}
