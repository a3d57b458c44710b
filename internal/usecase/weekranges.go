// Package usecase contains the business logic of the application.
package usecase

import (
	"time"

	"github.com/hyamamo/issue-trends/internal/domain"
)

// GenerateWeeklyRanges produces the ordered sequence of 7-day windows from
// monthsBack calendar months before now up to now. The final window is
// clamped at now and may be shorter than 7 days. The anchor is passed in
// explicitly so the sequence is deterministic for a fixed now.
func GenerateWeeklyRanges(now time.Time, monthsBack int) []domain.WeekRange {
	nowDay := domain.DateOnly(now)
	cursor := domain.DateOnly(now.AddDate(0, -monthsBack, 0))

	// The cursor may land exactly on the anchor day when the span divides
	// evenly into weeks; that still emits a final one-day range so issues
	// closed on the anchor day have a bucket.
	var ranges []domain.WeekRange
	for !cursor.After(nowDay) {
		end := cursor.AddDate(0, 0, 6)
		if end.After(nowDay) {
			end = nowDay
		}
		ranges = append(ranges, domain.WeekRange{
			Start: cursor,
			End:   end,
			Label: cursor.Format("Jan 2"),
		})
		cursor = cursor.AddDate(0, 0, 7)
	}
	return ranges
}
