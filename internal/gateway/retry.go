package gateway

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// userAgent identifies this tool to the upstream API. It is set on
	// every request and takes precedence over any caller-supplied value.
	userAgent    = "GitHub-Issue-Tracker"
	acceptHeader = "application/vnd.github.v3+json"

	// maxRetries is the number of additional attempts after the first
	// request when the upstream signals rate limiting.
	maxRetries = 3
)

// BackoffDelay returns the wait before retry number attempt (1-based):
// 1s, 2s, 3s.
func BackoffDelay(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

// RetryTransport is an http.RoundTripper that retries rate-limited requests
// with linear backoff. Any other non-2xx response is returned to the caller
// unchanged on the first attempt, and the last received response is returned
// once retries are exhausted; callers must always check the status.
type RetryTransport struct {
	// Base performs the actual requests. Defaults to http.DefaultTransport.
	Base http.RoundTripper

	// Sleep waits out the backoff delay. It must return early with the
	// context error when the context is canceled. Tests inject a recorder
	// here; the default uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger *slog.Logger
}

// NewRetryTransport wraps base with the retry policy. A nil base uses
// http.DefaultTransport.
func NewRetryTransport(base http.RoundTripper, logger *slog.Logger) *RetryTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryTransport{Base: base, Logger: logger}
}

func (t *RetryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	sleep := t.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	var resp *http.Response
	for attempt := 1; ; attempt++ {
		// RoundTrippers must not mutate the caller's request.
		clone := req.Clone(req.Context())
		clone.Header.Set("User-Agent", userAgent)
		clone.Header.Set("Accept", acceptHeader)

		t.Logger.Info("fetching", "url", req.URL.String(), "attempt", attempt)

		var err error
		resp, err = base.RoundTrip(clone)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		if !isRateLimited(resp) || attempt > maxRetries {
			if isRateLimited(resp) {
				t.Logger.Error("giving up after rate-limit retries", "url", req.URL.String(), "attempts", attempt)
			}
			return resp, nil
		}

		delay := BackoffDelay(attempt)
		t.Logger.Warn("rate limit exceeded, backing off", "url", req.URL.String(), "delay", delay)
		drain(resp)
		if err := sleep(req.Context(), delay); err != nil {
			return nil, err
		}
	}
}

// isRateLimited reports whether the response is the upstream's primary
// rate-limit signal: HTTP 403 with rate-limit status text, or with the
// remaining-quota header at zero.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden {
		return false
	}
	if strings.Contains(strings.ToLower(resp.Status), "rate limit") {
		return true
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func drain(resp *http.Response) {
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
