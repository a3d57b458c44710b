package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hyamamo/issue-trends/internal/domain"
	"github.com/hyamamo/issue-trends/internal/gateway"
)

// DefaultMonths is the lookback period used when the caller does not supply one.
const DefaultMonths = 5

// Analyzer is the use case for analyzing repository issue activity.
// It orchestrates fetching, week-range generation, and aggregation.
type Analyzer struct {
	fetcher gateway.IssueFetcher
	logger  *slog.Logger

	// now supplies the anchor time for week ranges and fetch windows.
	now func() time.Time

	// repoTimeout bounds a single repository's analysis; zero disables it.
	repoTimeout time.Duration

	// defaultMonths is the lookback applied when a caller passes none.
	defaultMonths int
}

// NewAnalyzer creates a new Analyzer instance. A non-positive defaultMonths
// falls back to DefaultMonths.
func NewAnalyzer(fetcher gateway.IssueFetcher, logger *slog.Logger, repoTimeout time.Duration, defaultMonths int) *Analyzer {
	if defaultMonths <= 0 {
		defaultMonths = DefaultMonths
	}
	return &Analyzer{
		fetcher:       fetcher,
		logger:        logger,
		now:           time.Now,
		repoTimeout:   repoTimeout,
		defaultMonths: defaultMonths,
	}
}

// Analyze runs the full pipeline for one repository URL. A malformed URL
// yields the failure variant; fetch errors are absorbed into an empty issue
// set so a repository that cannot be fetched still produces a (clearly
// empty) timeline rather than aborting the batch.
func (a *Analyzer) Analyze(ctx context.Context, repoURL string, monthsBack int) domain.AnalysisResult {
	if monthsBack <= 0 {
		monthsBack = a.defaultMonths
	}

	ref, ok := domain.ParseRepoURL(repoURL)
	if !ok {
		return domain.FailureResult(repoURL, "Invalid GitHub URL")
	}

	if a.repoTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.repoTimeout)
		defer cancel()
	}

	now := a.now()
	since := now.AddDate(0, -monthsBack, 0)

	issues, err := a.fetcher.FetchRepoIssues(ctx, ref.Owner, ref.Name, since)
	if err != nil {
		a.logger.Error("fetching repository issues failed", "repo", ref.Owner+"/"+ref.Name, "error", err)
		issues = nil
	}

	ranges := GenerateWeeklyRanges(now, monthsBack)
	timeline := AnalyzeIssuesByTime(issues, ranges)

	return domain.SuccessResult(&domain.RepoAnalysis{
		URL:         repoURL,
		Owner:       ref.Owner,
		Repo:        ref.Name,
		Timeline:    timeline,
		TotalIssues: len(issues),
		Summary:     SummarizeTimeline(timeline),
	})
}

// AnalyzeAll runs Analyze for every URL concurrently and returns one result
// per URL in input order, regardless of completion order. Individual
// failures become failure records and never abort sibling analyses.
func (a *Analyzer) AnalyzeAll(ctx context.Context, repoURLs []string, monthsBack int) ([]domain.AnalysisResult, error) {
	a.logger.Info("analyzing repositories", "count", len(repoURLs), "months", monthsBack)

	results := make([]domain.AnalysisResult, len(repoURLs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, repoURL := range repoURLs {
		i, repoURL := i, repoURL
		eg.Go(func() error {
			results[i] = a.Analyze(egCtx, repoURL, monthsBack)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
