package usecase

import (
	"github.com/hyamamo/issue-trends/internal/domain"
)

// AnalyzeIssuesByTime buckets issues into the given week ranges, one bucket
// per range in the same order. Open issues count in every range whose end is
// on or after their creation date; closed issues count in exactly the range
// containing their closed date. Pure function, safe to call repeatedly.
func AnalyzeIssuesByTime(issues []domain.Issue, ranges []domain.WeekRange) []domain.WeeklyBucket {
	buckets := make([]domain.WeeklyBucket, 0, len(ranges))
	for _, r := range ranges {
		bucket := domain.WeeklyBucket{Week: r.Label}
		for _, issue := range issues {
			if !issueInRange(issue, r) {
				continue
			}
			bucket.TotalIssues++
			if IsBugReport(issue) {
				bucket.BugReports++
			} else {
				bucket.OtherIssues++
			}
			if issue.State == domain.IssueOpen {
				bucket.OpenIssues++
			} else {
				bucket.ClosedIssues++
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

func issueInRange(issue domain.Issue, r domain.WeekRange) bool {
	if issue.State == domain.IssueOpen {
		// Still open by the end of this week.
		return !domain.DateOnly(issue.CreatedAt).After(r.End)
	}
	// Closed during this week.
	closed := domain.DateOnly(issue.ClosedAt)
	return !closed.Before(r.Start) && !closed.After(r.End)
}
