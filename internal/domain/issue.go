// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// IssueState is the lifecycle state of an issue as reported by the upstream API.
type IssueState string

const (
	IssueOpen   IssueState = "open"
	IssueClosed IssueState = "closed"
)

// Issue is a single issue record fetched from the upstream search API.
// Invariant: ClosedAt is non-zero if and only if State is IssueClosed.
type Issue struct {
	Labels    []string
	Type      string // optional issue type name; empty when the repository does not use types
	State     IssueState
	CreatedAt time.Time
	ClosedAt  time.Time
}

// DateOnly truncates t to UTC midnight. All timeline comparisons happen at
// day granularity.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
