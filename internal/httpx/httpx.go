package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HTTPError carries status/body for non-2xx responses.
// It lets callers decide if/when to retry.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 900))
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// RetryConfig controls retry behavior for dataset downloads.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// If true, retry any 5xx.
	Retry5xx bool

	// Extra statuses to retry (e.g. 429, 408).
	RetryStatuses map[int]bool
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    15 * time.Second,
		Retry5xx:    true,
		RetryStatuses: map[int]bool{
			http.StatusTooManyRequests:    true, // 429
			http.StatusRequestTimeout:     true, // 408
			http.StatusServiceUnavailable: true, // 503
			http.StatusBadGateway:         true, // 502
			http.StatusGatewayTimeout:     true, // 504
		},
	}
}

// Fetch GETs url with retries and returns the response body. The body is
// always read in full, even on error statuses, so http.Transport can reuse
// the connection between attempts.
func Fetch(ctx context.Context, client *http.Client, url string, cfg RetryConfig) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultRetryConfig()
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 15 * time.Second
	}
	if cfg.RetryStatuses == nil {
		cfg.RetryStatuses = DefaultRetryConfig().RetryStatuses
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := client.Do(req)
		if err != nil {
			if !isRetryableNetErr(err) {
				return nil, err
			}
			lastErr = err
			if attempt < cfg.MaxAttempts {
				if err := sleepBackoff(ctx, attempt, cfg.BaseDelay, cfg.MaxDelay, 0); err != nil {
					return nil, err
				}
				continue
			}
			return nil, err
		}

		body, readErr := readAndClose(resp.Body)
		if readErr != nil {
			lastErr = readErr
			if isRetryableNetErr(readErr) && attempt < cfg.MaxAttempts {
				if err := sleepBackoff(ctx, attempt, cfg.BaseDelay, cfg.MaxDelay, 0); err != nil {
					return nil, err
				}
				continue
			}
			return nil, readErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		herr := &HTTPError{
			Method:     http.MethodGet,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       body,
		}

		if isRetryableStatus(resp.StatusCode, cfg) {
			lastErr = herr
			if attempt < cfg.MaxAttempts {
				if err := sleepBackoff(ctx, attempt, cfg.BaseDelay, cfg.MaxDelay, retryAfter(resp)); err != nil {
					return nil, err
				}
				continue
			}
		}

		return nil, herr
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("httpx: request failed")
}

func readAndClose(rc io.ReadCloser) ([]byte, error) {
	defer rc.Close()
	return io.ReadAll(rc)
}

func isRetryableStatus(code int, cfg RetryConfig) bool {
	if cfg.RetryStatuses[code] {
		return true
	}
	return cfg.Retry5xx && code >= 500 && code <= 599
}

func sleepBackoff(ctx context.Context, attempt int, base, max, after time.Duration) error {
	sleep := after
	if sleep <= 0 {
		sleep = base * time.Duration(1<<(attempt-1))
		if sleep > max {
			sleep = max
		}
		// jitter 0..300ms
		sleep += time.Duration(rand.Intn(300)) * time.Millisecond
	}

	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func isRetryableNetErr(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return nerr.Timeout()
	}

	// common transient I/O errors
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "eof")
}

// retryAfter parses the Retry-After header (seconds or HTTP date).
// Returns 0 when the header is missing/invalid.
func retryAfter(resp *http.Response) time.Duration {
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
