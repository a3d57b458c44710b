// Package gateway provides a gateway to the GitHub search API,
// abstracting away the underlying REST client and its retry policy.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/hyamamo/issue-trends/internal/domain"
)

// IssueFetcher defines the behavior of a gateway for fetching a
// repository's issues from GitHub.
type IssueFetcher interface {
	// FetchRepoIssues returns every issue that is currently open or was
	// closed on/after since. A page failure aborts the whole call with an
	// error and no items; partial results are never returned.
	FetchRepoIssues(ctx context.Context, owner, repo string, since time.Time) ([]domain.Issue, error)
}

// GitHubGateway is the concrete implementation of the IssueFetcher interface.
type GitHubGateway struct {
	client   *github.Client
	logger   *slog.Logger
	pageSize int
}

// NewGitHubGateway is a constructor that creates a new instance of
// GitHubGateway. The HTTP client stacks the retry transport on top of a
// secondary-rate-limit waiter, so primary 403 rate limits are retried with
// linear backoff and secondary limits are slept through.
func NewGitHubGateway(logger *slog.Logger) (*GitHubGateway, error) {
	waiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	httpClient := &http.Client{Transport: NewRetryTransport(waiter, logger)}
	return &GitHubGateway{
		client:   github.NewClient(httpClient),
		logger:   logger,
		pageSize: 100,
	}, nil
}

// searchResponse mirrors the shape of the upstream search endpoint. The
// gateway decodes into its own records rather than the client library's
// issue type so the wire contract stays exactly the documented one.
type searchResponse struct {
	TotalCount int           `json:"total_count"`
	Items      []issueRecord `json:"items"`
}

type issueRecord struct {
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Type *struct {
		Name string `json:"name"`
	} `json:"type"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

func (r issueRecord) toDomain() domain.Issue {
	issue := domain.Issue{
		State:     domain.IssueState(r.State),
		CreatedAt: r.CreatedAt,
	}
	for _, l := range r.Labels {
		issue.Labels = append(issue.Labels, l.Name)
	}
	if r.Type != nil {
		issue.Type = r.Type.Name
	}
	if r.ClosedAt != nil {
		issue.ClosedAt = *r.ClosedAt
	}
	return issue
}

// FetchRepoIssues pages through the search results for one repository until
// an empty page, accumulating all items in upstream order.
func (g *GitHubGateway) FetchRepoIssues(ctx context.Context, owner, repo string, since time.Time) ([]domain.Issue, error) {
	query := fmt.Sprintf("repo:%s/%s is:issue (is:open OR closed:>=%s)", owner, repo, since.UTC().Format("2006-01-02"))

	var issues []domain.Issue
	for page := 1; ; page++ {
		result, err := g.searchPage(ctx, query, page)
		if err != nil {
			return nil, fmt.Errorf("failed to search issues for %s/%s (page %d): %w", owner, repo, page, err)
		}
		if len(result.Items) == 0 {
			break
		}
		for _, item := range result.Items {
			issues = append(issues, item.toDomain())
		}
		g.logger.Info("fetched issue page", "repo", owner+"/"+repo, "page", page, "items", len(result.Items))
	}
	g.logger.Info("completed fetching issues", "repo", owner+"/"+repo, "total", len(issues))
	return issues, nil
}

func (g *GitHubGateway) searchPage(ctx context.Context, query string, page int) (*searchResponse, error) {
	u := fmt.Sprintf("search/issues?q=%s&per_page=%d&page=%d&advanced_search=true",
		url.QueryEscape(query), g.pageSize, page)
	req, err := g.client.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var result searchResponse
	if _, err := g.client.Do(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
