package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"medication-adherence/internal/ports/insights"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleReq = insights.Request{Messages: []insights.Message{
	{Role: "system", Content: "be nice"},
	{Role: "user", Content: "adherence 71%"},
}}

func newTestClient(t *testing.T, cfg Config, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg.BaseURL = srv.URL
	if cfg.APIKey == "" {
		cfg.APIKey = "key"
	}
	c, err := NewClient(cfg, nil)
	require.NoError(t, err)
	return c
}

func completion(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + mustJSON(text) + `}}]}`))
	}
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestGenerate_OK(t *testing.T) {
	c := newTestClient(t, Config{Model: "gemini-flash"}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultPath, r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gemini-flash", body.Model)
		if assert.Len(t, body.Messages, 2) {
			assert.Equal(t, "user", body.Messages[1].Role)
		}

		completion("Great week!")(w, r)
	})

	text, err := c.Generate(context.Background(), sampleReq)
	require.NoError(t, err)
	assert.Equal(t, "Great week!", text)
}

func TestGenerate_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, insights.ErrRateLimited},
		{http.StatusPaymentRequired, insights.ErrPaymentRequired},
		{http.StatusInternalServerError, insights.ErrUpstream},
		{http.StatusBadRequest, insights.ErrUpstream},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, err := c.Generate(context.Background(), sampleReq)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	c := newTestClient(t, Config{}, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	_, err := c.Generate(context.Background(), sampleReq)
	assert.ErrorIs(t, err, insights.ErrUpstream)
}

func TestGenerate_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{}, nil)
	require.NoError(t, err)
	assert.False(t, c.IsConfigured())

	_, err = c.Generate(context.Background(), sampleReq)
	assert.ErrorIs(t, err, insights.ErrNotConfigured)
}

func TestGenerate_LocalRateLimit(t *testing.T) {
	var hits int32
	c := newTestClient(t, Config{RequestsPerMinute: 1, Burst: 1}, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		completion("ok")(w, r)
	})

	_, err := c.Generate(context.Background(), sampleReq)
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), sampleReq)
	assert.ErrorIs(t, err, insights.ErrRateLimited)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGenerate_BreakerOpensAfterFailures(t *testing.T) {
	var hits int32
	c := newTestClient(t, Config{BreakerFailures: 2, BreakerCooldown: time.Minute}, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 2; i++ {
		_, err := c.Generate(context.Background(), sampleReq)
		assert.ErrorIs(t, err, insights.ErrUpstream)
	}

	_, err := c.Generate(context.Background(), sampleReq)
	assert.ErrorIs(t, err, insights.ErrUpstream)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestGenerate_RateLimitedDoesNotTripBreaker(t *testing.T) {
	var hits int32
	c := newTestClient(t, Config{BreakerFailures: 1}, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	})

	for i := 0; i < 3; i++ {
		_, err := c.Generate(context.Background(), sampleReq)
		assert.ErrorIs(t, err, insights.ErrRateLimited)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}
