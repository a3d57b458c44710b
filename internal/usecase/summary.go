package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/hyamamo/issue-trends/internal/domain"
)

// SummarizeTimeline condenses a timeline into mean/median/peak of the weekly
// open-issue counts. Returns nil for an empty timeline.
func SummarizeTimeline(timeline []domain.WeeklyBucket) *domain.TimelineSummary {
	if len(timeline) == 0 {
		return nil
	}

	open := make(stats.Float64Data, 0, len(timeline))
	summary := &domain.TimelineSummary{PeakWeek: timeline[0].Week}
	for _, bucket := range timeline {
		open = append(open, float64(bucket.OpenIssues))
		if bucket.OpenIssues > summary.PeakOpenIssues {
			summary.PeakOpenIssues = bucket.OpenIssues
			summary.PeakWeek = bucket.Week
		}
	}

	// Mean and Median only fail on empty input, which is excluded above.
	summary.AvgOpenIssues, _ = stats.Mean(open)
	summary.MedianOpenIssues, _ = stats.Median(open)
	return summary
}
