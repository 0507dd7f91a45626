// Package webhook provides a reporter that posts workflow reports to an HTTP
// endpoint.
package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/ohler55/ojg/oj"
	"github.com/valyala/fasthttp"

	"agenthub/orchestrator/pkg/types"
)

// Config holds configuration for the webhook reporter.
type Config struct {
	// URL is the webhook endpoint.
	URL string
	// Method is the HTTP method, POST by default.
	Method string
	// Headers are additional request headers.
	Headers map[string]string
	// RetryAttempts is how many times a failed delivery is retried.
	RetryAttempts int
	// RetryDelay is the pause between retries.
	RetryDelay time.Duration
	// Timeout bounds one delivery attempt.
	Timeout time.Duration
}

// DefaultConfig returns the default webhook reporter configuration.
func DefaultConfig() *Config {
	return &Config{
		Method:        fasthttp.MethodPost,
		Headers:       make(map[string]string),
		RetryAttempts: 3,
		RetryDelay:    time.Second,
		Timeout:       10 * time.Second,
	}
}

// Reporter posts workflow reports as JSON to a configured URL.
type Reporter struct {
	config *Config
	client *fasthttp.Client
}

// New creates a webhook reporter with the given config; nil means defaults.
func New(config *Config) *Reporter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reporter{
		config: config,
		client: &fasthttp.Client{},
	}
}

// Name implements reporter.Reporter.
func (r *Reporter) Name() string { return "webhook" }

// Init implements reporter.Reporter.
func (r *Reporter) Init(_ context.Context, config map[string]any) error {
	if url, ok := config["url"].(string); ok {
		r.config.URL = url
	}
	if method, ok := config["method"].(string); ok && method != "" {
		r.config.Method = method
	}
	if timeout, ok := config["timeout"].(string); ok {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid webhook timeout: %w", err)
		}
		r.config.Timeout = d
	}
	if headers, ok := config["headers"].(map[string]any); ok {
		for k, v := range headers {
			if s, ok := v.(string); ok {
				r.config.Headers[k] = s
			}
		}
	}
	if r.config.URL == "" {
		return fmt.Errorf("webhook reporter requires a url")
	}
	return nil
}

// Report implements reporter.Reporter.
func (r *Reporter) Report(ctx context.Context, report *types.WorkflowReport) error {
	body, err := oj.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.config.RetryDelay):
			}
		}
		if lastErr = r.send(body); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("webhook delivery failed after %d attempts: %w", r.config.RetryAttempts+1, lastErr)
}

func (r *Reporter) send(body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.config.URL)
	req.Header.SetMethod(r.config.Method)
	req.Header.SetContentType("application/json")
	for k, v := range r.config.Headers {
		req.Header.Set(k, v)
	}
	req.SetBody(body)

	if err := r.client.DoTimeout(req, resp, r.config.Timeout); err != nil {
		return err
	}
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("webhook returned status %d", code)
	}
	return nil
}

// Close implements reporter.Reporter.
func (r *Reporter) Close(context.Context) error {
	r.client.CloseIdleConnections()
	return nil
}
