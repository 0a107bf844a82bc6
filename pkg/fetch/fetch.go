// Package fetch downloads plain-text documents for extraction.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes caps how much of a response body is read.
const DefaultMaxBytes = 20 << 20

var (
	// ErrNotText is returned when the body does not sniff as text.
	ErrNotText = errors.New("content is not text")
	// ErrTooLarge is returned when the body exceeds the byte limit.
	ErrTooLarge = errors.New("response body too large")
)

// HTTPClient abstracts HTTP requests for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// Fetcher downloads documents.
type Fetcher struct {
	Client     HTTPClient    // default: http.Client with Timeout
	Timeout    time.Duration // per request, default 60s
	Attempts   uint          // default 3
	RetryDelay time.Duration // default 1s
	MaxBytes   int64         // default DefaultMaxBytes
}

// Text downloads rawURL with the default Fetcher.
func Text(ctx context.Context, rawURL string) (string, error) {
	return (&Fetcher{}).Text(ctx, rawURL)
}

// Text downloads rawURL and returns its body as a string. Transport
// errors and 5xx/429 responses are retried; other non-2xx statuses fail
// at once. The body must sniff as a text MIME type.
func (f *Fetcher) Text(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}

	client := f.Client
	if client == nil {
		timeout := f.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	attempts, delay := f.Attempts, f.RetryDelay
	if attempts == 0 {
		attempts = 3
	}
	if delay == 0 {
		delay = time.Second
	}
	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}

	var body []byte
	err = retry.Do(
		func() error {
			b, err := get(ctx, client, rawURL, limit)
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
	)
	if err != nil {
		if attempts > 1 && retryable(err) {
			return "", fmt.Errorf("request failed after %d attempts: %w", attempts, err)
		}
		return "", err
	}

	mt := mimetype.Detect(body)
	if !isText(mt) {
		return "", fmt.Errorf("%w: %s is %s", ErrNotText, rawURL, mt.String())
	}
	return strings.TrimPrefix(string(body), "\ufeff"), nil
}

func get(ctx context.Context, client HTTPClient, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, text/*;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, rawURL, limit)
	}
	return body, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	return !errors.Is(err, ErrTooLarge) && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}
