package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hyamamo/issue-trends/internal/domain"
	"github.com/hyamamo/issue-trends/internal/transport/http/middleware"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) AnalyzeAll(ctx context.Context, repoURLs []string, monthsBack int) ([]domain.AnalysisResult, error) {
	args := m.Called(ctx, repoURLs, monthsBack)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalysisResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func postIssues(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/github-issues", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyzeIssues_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		body        string
		expectedMsg string
	}{
		{
			name:        "empty body",
			body:        "",
			expectedMsg: "Missing request body",
		},
		{
			name:        "empty object",
			body:        "{}",
			expectedMsg: "Missing request body",
		},
		{
			name:        "repos absent",
			body:        `{"months": 3}`,
			expectedMsg: `Missing "repos" in request body`,
		},
		{
			name:        "repos null",
			body:        `{"repos": null}`,
			expectedMsg: `Missing "repos" in request body`,
		},
		{
			name:        "repos wrong type",
			body:        `{"repos": 42}`,
			expectedMsg: `Parameter "repos" must be a non-empty string or an array of strings`,
		},
		{
			name:        "repos empty array",
			body:        `{"repos": []}`,
			expectedMsg: `Parameter "repos" must be a non-empty string or an array of strings`,
		},
		{
			name:        "repos empty string",
			body:        `{"repos": ""}`,
			expectedMsg: `Parameter "repos" must be a non-empty string or an array of strings`,
		},
		{
			name:        "months zero",
			body:        `{"repos": "https://github.com/o/r", "months": 0}`,
			expectedMsg: `Parameter "months" must be a positive integer no higher than 12`,
		},
		{
			name:        "months above the cap",
			body:        `{"repos": "https://github.com/o/r", "months": 13}`,
			expectedMsg: `Parameter "months" must be a positive integer no higher than 12`,
		},
		{
			name:        "months not a number",
			body:        `{"repos": "https://github.com/o/r", "months": "soon"}`,
			expectedMsg: `Parameter "months" must be a positive integer no higher than 12`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := new(mockAnalyzer)
			router := NewRouter(NewHandler(analyzer, discardLogger(), ""), discardLogger(), nil)

			rec := postIssues(t, router, tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"success": false, "errorMessage": "`+strings.ReplaceAll(tc.expectedMsg, `"`, `\"`)+`"}`, rec.Body.String())
			// Invalid input must never reach the analyzer.
			analyzer.AssertNotCalled(t, "AnalyzeAll")
		})
	}
}

func TestHandleAnalyzeIssues_Success(t *testing.T) {
	analyzer := new(mockAnalyzer)
	results := []domain.AnalysisResult{
		domain.SuccessResult(&domain.RepoAnalysis{URL: "https://github.com/o/r", Owner: "o", Repo: "r", Timeline: []domain.WeeklyBucket{}, TotalIssues: 0}),
		domain.FailureResult("bad", "Invalid GitHub URL"),
	}
	analyzer.On("AnalyzeAll", mock.Anything, []string{"https://github.com/o/r", "bad"}, 3).Return(results, nil)

	router := NewRouter(NewHandler(analyzer, discardLogger(), ""), discardLogger(), nil)
	rec := postIssues(t, router, `{"repos": ["https://github.com/o/r", "bad"], "months": 3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"success":true`)
	assert.Contains(t, body, `"timestamp"`)
	assert.Contains(t, body, `"error":"Invalid GitHub URL"`)
	analyzer.AssertExpectations(t)
}

func TestHandleAnalyzeIssues_SingleStringRepo(t *testing.T) {
	analyzer := new(mockAnalyzer)
	// A bare string body is wrapped into a one-element list; omitted months
	// pass through as zero so the analyzer applies its default.
	analyzer.On("AnalyzeAll", mock.Anything, []string{"https://github.com/o/r"}, 0).
		Return([]domain.AnalysisResult{domain.FailureResult("x", "y")}, nil)

	router := NewRouter(NewHandler(analyzer, discardLogger(), ""), discardLogger(), nil)
	rec := postIssues(t, router, `{"repos": "https://github.com/o/r"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	analyzer.AssertExpectations(t)
}

func TestHandleAnalyzeIssues_OrchestrationError(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("AnalyzeAll", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom"))

	router := NewRouter(NewHandler(analyzer, discardLogger(), ""), discardLogger(), nil)
	rec := postIssues(t, router, `{"repos": "https://github.com/o/r"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), "Error analyzing repositories: boom")
}

func TestHandleAnalyzeIssues_DataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"url":"fixture","error":"none"}]`), 0o644))

	analyzer := new(mockAnalyzer)
	router := NewRouter(NewHandler(analyzer, discardLogger(), path), discardLogger(), nil)
	rec := postIssues(t, router, `{"repos": "https://github.com/o/r"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"url":"fixture"`)
	analyzer.AssertNotCalled(t, "AnalyzeAll")
}

func TestHandleHealth(t *testing.T) {
	router := NewRouter(NewHandler(new(mockAnalyzer), discardLogger(), ""), discardLogger(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRouter_RateLimiting(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, 1)
	router := NewRouter(NewHandler(new(mockAnalyzer), discardLogger(), ""), discardLogger(), limiter)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
