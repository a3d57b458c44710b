package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerateWeeklyRanges_OneMonth(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	ranges := GenerateWeeklyRanges(now, 1)

	require.Len(t, ranges, 5)
	assert.Equal(t, date(2024, 2, 15), ranges[0].Start)
	assert.Equal(t, date(2024, 2, 21), ranges[0].End)
	assert.Equal(t, "Feb 15", ranges[0].Label)

	last := ranges[len(ranges)-1]
	assert.Equal(t, date(2024, 3, 14), last.Start)
	assert.Equal(t, date(2024, 3, 15), last.End)
	// Final window is clamped at "now" and shorter than 7 days.
	assert.Less(t, last.End.Sub(last.Start), 7*24*time.Hour)
}

func TestGenerateWeeklyRanges_Properties(t *testing.T) {
	anchors := []time.Time{
		time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2023, 1, 1, 0, 0, 1, 0, time.UTC),
		time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), // leap day
	}

	for _, now := range anchors {
		for _, months := range []int{1, 3, 5, 12} {
			ranges := GenerateWeeklyRanges(now, months)
			require.NotEmpty(t, ranges)

			nowDay := date(now.Year(), now.Month(), now.Day())
			for i, r := range ranges {
				assert.False(t, r.End.Before(r.Start), "range end before start")
				assert.False(t, r.End.After(nowDay), "range end exceeds now")
				if i > 0 {
					prev := ranges[i-1]
					assert.True(t, prev.Start.Before(r.Start), "ranges not strictly ordered")
					assert.Equal(t, r.Start, prev.End.AddDate(0, 0, 1), "ranges not contiguous")
				}
			}
			// The sequence always reaches "now" exactly, never passes it.
			assert.Equal(t, nowDay, ranges[len(ranges)-1].End)
		}
	}
}

func TestGenerateWeeklyRanges_EvenWeekSpanKeepsAnchorDay(t *testing.T) {
	// Feb 15 to Mar 15 2023 is exactly 28 days; the sequence must still end
	// with a one-day range on the anchor day rather than stopping a week
	// early, so issues closed on the anchor day have a bucket.
	now := time.Date(2023, 3, 15, 10, 0, 0, 0, time.UTC)

	ranges := GenerateWeeklyRanges(now, 1)

	require.Len(t, ranges, 5)
	last := ranges[len(ranges)-1]
	assert.Equal(t, date(2023, 3, 15), last.Start)
	assert.Equal(t, date(2023, 3, 15), last.End)
	assert.Equal(t, "Mar 15", last.Label)
}

func TestGenerateWeeklyRanges_DeterministicForFixedNow(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, GenerateWeeklyRanges(now, 3), GenerateWeeklyRanges(now, 3))
}

func TestGenerateWeeklyRanges_MonthRollback(t *testing.T) {
	// Subtracting one month from Mar 31 rolls past the end of February.
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	ranges := GenerateWeeklyRanges(now, 1)
	require.NotEmpty(t, ranges)
	assert.Equal(t, date(2024, 3, 2), ranges[0].Start)
}
