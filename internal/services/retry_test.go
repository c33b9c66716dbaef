package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmpegna/setlist-to-playlist/internal/shared"
)

// testPolicy returns a retry policy with waits small enough for tests.
func testPolicy(retries int) RetryPolicy {
	return RetryPolicy{
		NumRetries:      retries,
		RetriableErrors: []string{"Too Many Requests", "Service Unavailable"},
		Backoff:         time.Millisecond,
		MaxBackoff:      5 * time.Millisecond,
	}
}

func TestRetryClient(t *testing.T) {
	t.Run("Succeeds First Attempt", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewRetryClient(srv.Client(), testPolicy(3), nil)
		req, _ := http.NewRequest("GET", srv.URL, nil)

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer resp.Body.Close()

		if attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("Retries Transient Failures", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			if attempts <= 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewRetryClient(srv.Client(), testPolicy(3), nil)
		req, _ := http.NewRequest("GET", srv.URL, nil)

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("expected recovery within budget, got %v", err)
		}
		defer resp.Body.Close()

		if attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("Exhausts Budget", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := NewRetryClient(srv.Client(), testPolicy(2), nil)
		req, _ := http.NewRequest("GET", srv.URL, nil)

		_, err := client.Do(req)
		if !errors.Is(err, shared.ErrRetryExhausted) {
			t.Fatalf("expected ErrRetryExhausted, got %v", err)
		}

		// First try plus two retries.
		if attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", attempts)
		}
	})

	t.Run("Fatal Response Skips Retries", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewRetryClient(srv.Client(), testPolicy(5), nil)
		req, _ := http.NewRequest("GET", srv.URL, nil)

		resp, err := client.Do(req)
		if !errors.Is(err, shared.ErrFatalResponse) {
			t.Fatalf("expected ErrFatalResponse, got %v", err)
		}

		if resp == nil {
			t.Fatal("expected response alongside fatal error")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", resp.StatusCode)
		}
		if attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", attempts)
		}
	})

	t.Run("Replays Body Across Retries", func(t *testing.T) {
		attempts := 0
		const payload = `{"name":"Concert Setlists"}`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			body, _ := io.ReadAll(r.Body)
			if string(body) != payload {
				t.Errorf("attempt %d: expected body %q, got %q", attempts, payload, body)
			}
			if attempts == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewRetryClient(srv.Client(), testPolicy(3), nil)
		req, _ := http.NewRequest("POST", srv.URL, strings.NewReader(payload))

		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("expected recovery within budget, got %v", err)
		}
		defer resp.Body.Close()

		if attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("Rejects Non Replayable Body", func(t *testing.T) {
		client := NewRetryClient(nil, testPolicy(1), nil)
		req, _ := http.NewRequest("POST", "http://localhost", nil)
		req.Body = io.NopCloser(strings.NewReader("one-shot"))

		_, err := client.Do(req)
		if err == nil || !strings.Contains(err.Error(), "GetBody") {
			t.Fatalf("expected GetBody error, got %v", err)
		}
	})

	t.Run("Retries Transport Errors", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // connection refused from here on

		client := NewRetryClient(nil, testPolicy(1), nil)
		req, _ := http.NewRequest("GET", srv.URL, nil)

		_, err := client.Do(req)
		if !errors.Is(err, shared.ErrRetryExhausted) {
			t.Fatalf("expected ErrRetryExhausted, got %v", err)
		}
	})

	t.Run("Zero Budget", func(t *testing.T) {
		attempts := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := NewRetryClient(srv.Client(), testPolicy(0), nil)
		req, _ := http.NewRequest("GET", srv.URL, nil)

		_, err := client.Do(req)
		if !errors.Is(err, shared.ErrRetryExhausted) {
			t.Fatalf("expected ErrRetryExhausted, got %v", err)
		}
		if attempts != 1 {
			t.Errorf("expected 1 attempt with zero budget, got %d", attempts)
		}
	})

	t.Run("Context Cancellation During Backoff", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		policy := testPolicy(5)
		policy.Backoff = time.Minute

		ctx, cancel := context.WithCancel(context.Background())
		client := NewRetryClient(srv.Client(), policy, nil)
		req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL, nil)

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		_, err := client.Do(req)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context cancellation, got %v", err)
		}
	})
}

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		attempt int
		budget  int
		want    bool
	}{
		{0, 0, false},
		{0, 1, true},
		{1, 1, false},
		{4, 5, true},
		{5, 5, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("attempt=%d budget=%d", tc.attempt, tc.budget), func(t *testing.T) {
			if got := shouldRetry(tc.attempt, tc.budget); got != tc.want {
				t.Errorf("shouldRetry(%d, %d) = %v, want %v", tc.attempt, tc.budget, got, tc.want)
			}
		})
	}
}

func TestIsRetriable(t *testing.T) {
	client := NewRetryClient(nil, testPolicy(1), nil)

	t.Run("Matches Case Insensitively", func(t *testing.T) {
		if !client.isRetriable("429 too many requests") {
			t.Error("expected lowercase status to match")
		}
	})

	t.Run("Matches Substring", func(t *testing.T) {
		if !client.isRetriable("503 Service Unavailable") {
			t.Error("expected status line containing signature to match")
		}
	})

	t.Run("Rejects Unlisted Status", func(t *testing.T) {
		if client.isRetriable("404 Not Found") {
			t.Error("did not expect 404 to be retriable")
		}
	})
}

func TestBackoffFor(t *testing.T) {
	client := NewRetryClient(nil, RetryPolicy{
		NumRetries: 5,
		Backoff:    time.Second,
		MaxBackoff: 5 * time.Second,
	}, nil)

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second},
		{10, 5 * time.Second},
	}

	for _, tc := range cases {
		if got := client.backoffFor(tc.attempt); got != tc.want {
			t.Errorf("backoffFor(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}
