package services

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"seismic-reports-scraper/internal/utils"
)

// PageFetcher downloads the reported-events page over plain HTTP
type PageFetcher struct {
	httpClient  *http.Client
	userAgents  []string
	retryConfig RetryConfig
}

// RetryConfig defines retry behavior for failed requests
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// NewPageFetcher creates a fetcher with sane TLS defaults and UA rotation
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
			MaxVersion: tls.VersionTLS13,
		},
		DisableKeepAlives: false,
		IdleConnTimeout:   90 * time.Second,
	}

	return &PageFetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgents: []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
		retryConfig: RetryConfig{
			MaxRetries:    3,
			InitialDelay:  1 * time.Second,
			MaxDelay:      10 * time.Second,
			BackoffFactor: 2.0,
		},
	}
}

// SetMaxRetries overrides the retry count (used by config wiring and tests)
func (f *PageFetcher) SetMaxRetries(n int) {
	if n >= 0 {
		f.retryConfig.MaxRetries = n
	}
}

// Fetch downloads the page body, retrying transient failures with
// exponential backoff. Client errors (4xx) are not retried.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.validateURL(url); err != nil {
		return "", err
	}

	logger := utils.GetLogger()
	var lastErr error

	for attempt := 0; attempt <= f.retryConfig.MaxRetries; attempt++ {
		body, err := f.attemptFetch(ctx, url, attempt)
		if err == nil {
			return body, nil
		}

		lastErr = err

		// Don't retry client errors or a cancelled context
		if strings.Contains(err.Error(), "status 4") || ctx.Err() != nil {
			break
		}

		if attempt < f.retryConfig.MaxRetries {
			delay := f.calculateDelay(attempt)
			logger.Warn("fetch attempt failed, retrying",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
				zap.Error(err))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("failed after %d attempts: %w", f.retryConfig.MaxRetries+1, lastErr)
}

// attemptFetch performs a single download attempt
func (f *PageFetcher) attemptFetch(ctx context.Context, url string, attempt int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	f.setHeaders(req, attempt)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("page returned status %d: %s", resp.StatusCode, string(body))
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read page body: %w", err)
	}

	return string(body), nil
}

// setHeaders sets realistic browser headers, rotating the user agent on retries
func (f *PageFetcher) setHeaders(req *http.Request, attempt int) {
	req.Header.Set("User-Agent", f.userAgents[attempt%len(f.userAgents)])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-PE,es;q=0.9,en;q=0.8")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	if attempt > 0 {
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")
	}
}

// calculateDelay calculates exponential backoff delay with jitter
func (f *PageFetcher) calculateDelay(attempt int) time.Duration {
	delay := float64(f.retryConfig.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= f.retryConfig.BackoffFactor
	}
	delay += rand.Float64() * 0.1 * float64(f.retryConfig.InitialDelay)

	if delay > float64(f.retryConfig.MaxDelay) {
		delay = float64(f.retryConfig.MaxDelay)
	}

	return time.Duration(delay)
}

func (f *PageFetcher) validateURL(url string) error {
	if url == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}
