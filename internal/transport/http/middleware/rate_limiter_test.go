package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Close()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	// Burst exhausted for this IP.
	assert.False(t, rl.Allow("10.0.0.1"))
	// Other IPs have their own budget.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_CloseIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	rl.Close()
	rl.Close()
	// The limiter keeps working after the sweep is stopped.
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestClientIP(t *testing.T) {
	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "remote address without headers",
			remoteAddr: "192.0.2.1:1234",
			expected:   "192.0.2.1",
		},
		{
			name:       "single forwarded address",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remoteAddr: "192.0.2.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "multi-hop forwarded list keeps the first entry",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 198.51.100.2, 10.0.0.1"},
			remoteAddr: "192.0.2.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "forwarded address with port",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7:5555, 10.0.0.1"},
			remoteAddr: "192.0.2.1:1234",
			expected:   "203.0.113.7",
		},
		{
			name:       "real-ip header",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			remoteAddr: "192.0.2.1:1234",
			expected:   "198.51.100.9",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remoteAddr
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tc.expected, clientIP(r))
		})
	}
}
