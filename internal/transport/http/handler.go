// Package http exposes the issue analysis pipeline over an HTTP API.
package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/hyamamo/issue-trends/internal/domain"
	"github.com/hyamamo/issue-trends/internal/transport/http/middleware"
)

// BatchAnalyzer is the core collaborator: one result per requested
// repository, in request order.
type BatchAnalyzer interface {
	AnalyzeAll(ctx context.Context, repoURLs []string, monthsBack int) ([]domain.AnalysisResult, error)
}

// Handler serves the issue analysis API.
type Handler struct {
	analyzer BatchAnalyzer
	logger   *slog.Logger

	// dataFile, when non-empty, is served verbatim as the data payload
	// instead of running analyses. Quick-testing switch.
	dataFile string
}

// NewHandler creates a new Handler instance.
func NewHandler(analyzer BatchAnalyzer, logger *slog.Logger, dataFile string) *Handler {
	return &Handler{analyzer: analyzer, logger: logger, dataFile: dataFile}
}

// NewRouter assembles the API router with its middleware stack. The rate
// limiter is optional.
func NewRouter(h *Handler, logger *slog.Logger, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
	}))
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/github-issues", h.HandleAnalyzeIssues)
		r.Get("/health", h.HandleHealth)
	})
	return r
}

// HandleAnalyzeIssues validates the request and runs the batch analysis.
func (h *Handler) HandleAnalyzeIssues(w http.ResponseWriter, r *http.Request) {
	repos, months, errMsg := parseAnalyzeRequest(r.Body)
	if errMsg != "" {
		writeValidationError(w, errMsg)
		return
	}

	if h.dataFile != "" {
		raw, err := os.ReadFile(h.dataFile)
		if err != nil {
			h.logger.Error("reading data file failed", "path", h.dataFile, "error", err)
			writeError(w, http.StatusInternalServerError, "Error reading data file")
			return
		}
		writeData(w, json.RawMessage(raw))
		return
	}

	h.logger.Info("analyzing repositories", "count", len(repos))

	results, err := h.analyzer.AnalyzeAll(r.Context(), repos, months)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error analyzing repositories: "+err.Error())
		return
	}
	writeData(w, results)
}

// HandleHealth reports service liveness.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// parseAnalyzeRequest validates the request body and extracts the repo list
// and month count. An empty errMsg means the input is valid; months is 0
// when the caller left it out.
func parseAnalyzeRequest(body io.Reader) (repos []string, months int, errMsg string) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil || len(fields) == 0 {
		return nil, 0, "Missing request body"
	}

	rawRepos, ok := fields["repos"]
	if !ok || string(rawRepos) == "null" {
		return nil, 0, `Missing "repos" in request body`
	}
	repos, errMsg = parseRepos(rawRepos)
	if errMsg != "" {
		return nil, 0, errMsg
	}

	if rawMonths, ok := fields["months"]; ok && string(rawMonths) != "null" {
		months, errMsg = parseMonths(rawMonths)
		if errMsg != "" {
			return nil, 0, errMsg
		}
	}
	return repos, months, ""
}

func parseRepos(raw json.RawMessage) ([]string, string) {
	const typeMsg = `Parameter "repos" must be a non-empty string or an array of strings`

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if single == "" {
			return nil, typeMsg
		}
		return []string{single}, ""
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil, typeMsg
		}
		return list, ""
	}
	return nil, typeMsg
}

func parseMonths(raw json.RawMessage) (int, string) {
	const rangeMsg = `Parameter "months" must be a positive integer no higher than 12`

	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		// Tolerate numbers sent as strings, as the original API did.
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, rangeMsg
		}
		var parsed float64
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return 0, rangeMsg
		}
		n = parsed
	}

	months := int(n)
	if months < 1 || months > 12 {
		return 0, rangeMsg
	}
	return months, ""
}
