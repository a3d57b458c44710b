package usecase

import (
	"strings"

	"github.com/hyamamo/issue-trends/internal/domain"
)

// nonBugTerms is the exclusion vocabulary: an issue carrying any of these
// terms in a label or its type name is counted as "other", everything else
// defaults to a bug report. A heuristic, not a real bug detector.
var nonBugTerms = []string{
	"enhancement",
	"wishlist",
	"task",
	"question",
	"feature",
	"discussion",
	"explanation",
	"wontfix",
	"nicetohave",
}

// IsBugReport reports whether the issue should be counted as a bug report.
func IsBugReport(issue domain.Issue) bool {
	for _, label := range issue.Labels {
		if containsNonBugTerm(label) {
			return false
		}
	}
	if issue.Type != "" && containsNonBugTerm(issue.Type) {
		return false
	}
	return true
}

func containsNonBugTerm(s string) bool {
	s = strings.ToLower(s)
	for _, term := range nonBugTerms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
