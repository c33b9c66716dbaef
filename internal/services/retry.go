// Bounded retry around outbound catalog calls.
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jmpegna/setlist-to-playlist/internal/shared"
	"golang.org/x/time/rate"
)

// RetryPolicy configures how the RetryClient handles transient failures.
type RetryPolicy struct {
	NumRetries      int           // Retry budget per request
	RetriableErrors []string      // Status-text signatures treated as transient
	Backoff         time.Duration // First wait, doubled per retry
	MaxBackoff      time.Duration // Cap for the doubled wait
	RateLimit       float64       // Outbound requests per second (0 = unlimited)
}

// DefaultRetryPolicy returns the policy used when configuration omits values.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		NumRetries:      5,
		RetriableErrors: []string{"Too Many Requests", "Service Unavailable", "Bad Gateway", "Gateway Timeout"},
		Backoff:         2 * time.Second,
		MaxBackoff:      30 * time.Second,
		RateLimit:       2.0,
	}
}

// RetryClient wraps an [http.Client] with a bounded retry loop for transient
// errors and a shared rate limiter for all outbound attempts.
//
// Transport errors and responses whose status text matches a configured
// signature are retried until the budget runs out; any other non-2xx response
// is surfaced immediately without consuming budget.
type RetryClient struct {
	httpClient *http.Client
	policy     RetryPolicy
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewRetryClient creates a RetryClient with the given policy.
// A nil client defaults to [http.DefaultClient].
func NewRetryClient(client *http.Client, policy RetryPolicy, logger *log.Logger) *RetryClient {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if policy.NumRetries < 0 {
		policy.NumRetries = 0
	}

	var limiter *rate.Limiter
	if policy.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(policy.RateLimit), 1)
	}

	return &RetryClient{
		httpClient: client,
		policy:     policy,
		limiter:    limiter,
		logger:     logger,
	}
}

// Do executes the request, retrying transient failures within the budget.
//
// On success returns the response with its body open. On a non-retriable
// status returns the response together with an error wrapping
// [shared.ErrFatalResponse] so callers can still inspect the status code.
// When the budget is exhausted returns an error wrapping
// [shared.ErrRetryExhausted] with the last failure.
//
// Requests with a body must carry GetBody so each attempt sends a fresh
// reader; requests built with [http.NewRequest] from an in-memory reader
// satisfy this automatically.
func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Body != nil && req.GetBody == nil {
		return nil, fmt.Errorf("request body is not replayable: GetBody is nil")
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := c.httpClient.Do(attemptReq)
		if err != nil {
			// Transport errors (connection resets, timeouts) are transient.
			lastErr = err
			c.logger.Info("catalog request failed", "url", req.URL.Path, "attempt", attempt+1, "error", err)
		} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.logger.Debug("catalog request succeeded", "url", req.URL.Path, "attempt", attempt+1)
			return resp, nil
		} else {
			status := statusText(resp)
			if !c.isRetriable(status) {
				c.logger.Error("catalog request rejected", "url", req.URL.Path, "attempt", attempt+1, "status", status)
				return resp, fmt.Errorf("%w: %s", shared.ErrFatalResponse, status)
			}

			lastErr = fmt.Errorf("status %s", status)
			drain(resp)
			c.logger.Info("retriable catalog error", "url", req.URL.Path, "attempt", attempt+1, "status", status)
		}

		if !shouldRetry(attempt, c.policy.NumRetries) {
			break
		}

		if err := c.wait(ctx, c.backoffFor(attempt)); err != nil {
			return nil, err
		}
	}

	c.logger.Error("retry budget exhausted", "url", req.URL.Path, "retries", c.policy.NumRetries, "error", lastErr)
	return nil, fmt.Errorf("%w after %d retries: %v", shared.ErrRetryExhausted, c.policy.NumRetries, lastErr)
}

// shouldRetry reports whether another attempt fits in the budget.
// attempt is zero-based, so a budget of N allows N retries after the first try.
func shouldRetry(attempt, budget int) bool {
	return attempt < budget
}

// isRetriable matches the status text against the configured signatures,
// case-insensitively and by substring.
func (c *RetryClient) isRetriable(status string) bool {
	for _, signature := range c.policy.RetriableErrors {
		if strings.Contains(strings.ToLower(status), strings.ToLower(signature)) {
			return true
		}
	}
	return false
}

// backoffFor returns the bounded exponential wait before the given retry.
func (c *RetryClient) backoffFor(attempt int) time.Duration {
	backoff := c.policy.Backoff
	if backoff <= 0 {
		return 0
	}

	for i := 0; i < attempt; i++ {
		backoff *= 2
		if c.policy.MaxBackoff > 0 && backoff >= c.policy.MaxBackoff {
			return c.policy.MaxBackoff
		}
	}
	if c.policy.MaxBackoff > 0 && backoff > c.policy.MaxBackoff {
		backoff = c.policy.MaxBackoff
	}
	return backoff
}

// wait sleeps for the given duration, aborting early on context cancellation.
func (c *RetryClient) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// statusText returns the human-readable status line of a response.
func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return http.StatusText(resp.StatusCode)
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	if resp.Body != nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
