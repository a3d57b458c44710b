package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// WeekRange is a 7-day window used to bucket issue activity. The final
// window of a generated sequence may be shorter, clamped at the anchor time.
// Start and End are UTC midnights, End inclusive.
type WeekRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// WeeklyBucket holds the issue counts for one week of the timeline.
// BugReports+OtherIssues and OpenIssues+ClosedIssues both equal TotalIssues.
type WeeklyBucket struct {
	Week         string `json:"week"`
	TotalIssues  int    `json:"totalIssues"`
	BugReports   int    `json:"bugReports"`
	OtherIssues  int    `json:"otherIssues"`
	OpenIssues   int    `json:"openIssues"`
	ClosedIssues int    `json:"closedIssues"`
}

// TimelineSummary condenses a timeline into headline numbers over the
// weekly open-issue counts.
type TimelineSummary struct {
	AvgOpenIssues    float64 `json:"avgOpenIssues"`
	MedianOpenIssues float64 `json:"medianOpenIssues"`
	PeakOpenIssues   int     `json:"peakOpenIssues"`
	PeakWeek         string  `json:"peakWeek"`
}

// RepoAnalysis is the successful outcome of analyzing one repository.
// TotalIssues is the raw fetched count, which can differ from any sum over
// the timeline because an open issue appears in every week since creation.
type RepoAnalysis struct {
	URL         string           `json:"url"`
	Owner       string           `json:"owner"`
	Repo        string           `json:"repo"`
	Timeline    []WeeklyBucket   `json:"timeline"`
	TotalIssues int              `json:"totalIssues"`
	Summary     *TimelineSummary `json:"summary,omitempty"`
}

// RepoError is the failed outcome of analyzing one repository.
type RepoError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// AnalysisResult is the per-repository outcome. Exactly one of Analysis and
// Failure is non-nil; use SuccessResult/FailureResult to construct.
type AnalysisResult struct {
	Analysis *RepoAnalysis
	Failure  *RepoError
}

// SuccessResult wraps a completed analysis.
func SuccessResult(a *RepoAnalysis) AnalysisResult {
	return AnalysisResult{Analysis: a}
}

// FailureResult wraps a per-repository failure message.
func FailureResult(url, msg string) AnalysisResult {
	return AnalysisResult{Failure: &RepoError{URL: url, Error: msg}}
}

// OK reports whether the result is the success variant.
func (r AnalysisResult) OK() bool {
	return r.Analysis != nil
}

// MarshalJSON emits the success or failure record, never both.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	switch {
	case r.Analysis != nil:
		return json.Marshal(r.Analysis)
	case r.Failure != nil:
		return json.Marshal(r.Failure)
	default:
		return nil, fmt.Errorf("analysis result has neither success nor failure set")
	}
}

// UnmarshalJSON restores the variant from its wire form; records carrying an
// "error" field decode as failures.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error != nil {
		r.Analysis = nil
		r.Failure = &RepoError{}
		return json.Unmarshal(data, r.Failure)
	}
	r.Failure = nil
	r.Analysis = &RepoAnalysis{}
	return json.Unmarshal(data, r.Analysis)
}
