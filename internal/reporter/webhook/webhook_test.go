package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenthub/orchestrator/pkg/types"
)

func sampleReport() *types.WorkflowReport {
	return &types.WorkflowReport{
		WorkflowID:   "wf-1",
		WorkflowName: "release",
		Status:       types.WorkflowStatusCompleted,
		TotalTasks:   1,
		GeneratedAt:  time.Now(),
	}
}

func fastRetryConfig(url string) *Config {
	cfg := DefaultConfig()
	cfg.URL = url
	cfg.RetryAttempts = 2
	cfg.RetryDelay = 10 * time.Millisecond
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestWebhookDelivery(t *testing.T) {
	var body atomic.Value
	var contentType atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body.Store(string(data))
		contentType.Store(r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := New(fastRetryConfig(server.URL))
	require.NoError(t, r.Report(context.Background(), sampleReport()))

	parsed, err := oj.ParseString(body.Load().(string))
	require.NoError(t, err)
	doc, ok := parsed.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "release", doc["workflow_name"])
	assert.Equal(t, "application/json", contentType.Load())
}

func TestWebhookCustomHeaders(t *testing.T) {
	var auth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
	}))
	defer server.Close()

	cfg := fastRetryConfig(server.URL)
	cfg.Headers["Authorization"] = "Bearer token"
	r := New(cfg)

	require.NoError(t, r.Report(context.Background(), sampleReport()))
	assert.Equal(t, "Bearer token", auth.Load())
}

func TestWebhookRetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := New(fastRetryConfig(server.URL))
	require.NoError(t, r.Report(context.Background(), sampleReport()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := New(fastRetryConfig(server.URL))
	err := r.Report(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	// RetryAttempts retries plus the initial attempt.
	assert.Equal(t, int32(3), calls.Load())
}

func TestWebhookRespectsContextDuringRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := fastRetryConfig(server.URL)
	cfg.RetryDelay = time.Minute
	r := New(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := r.Report(ctx, sampleReport())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWebhookInit(t *testing.T) {
	r := New(nil)
	err := r.Init(context.Background(), map[string]any{})
	require.Error(t, err, "missing url must be rejected")

	r = New(nil)
	require.NoError(t, r.Init(context.Background(), map[string]any{
		"url":     "http://example.com/hook",
		"method":  "PUT",
		"timeout": "5s",
		"headers": map[string]any{"X-Env": "ci"},
	}))
	assert.Equal(t, "PUT", r.config.Method)
	assert.Equal(t, 5*time.Second, r.config.Timeout)
	assert.Equal(t, "ci", r.config.Headers["X-Env"])
}

func TestWebhookInitBadTimeout(t *testing.T) {
	r := New(nil)
	err := r.Init(context.Background(), map[string]any{"url": "http://example.com", "timeout": "soon"})
	assert.Error(t, err)
}
