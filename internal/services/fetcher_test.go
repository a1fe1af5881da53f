package services

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastRetries shortens backoff so retry tests stay quick
func fastRetries(f *PageFetcher, maxRetries int) {
	f.retryConfig = RetryConfig{
		MaxRetries:    maxRetries,
		InitialDelay:  5 * time.Millisecond,
		MaxDelay:      20 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestPageFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte("<html>tabla de sismos</html>"))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5 * time.Second)
	body, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, body, "tabla de sismos")
}

func TestPageFetcher_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok after retries"))
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5 * time.Second)
	fastRetries(fetcher, 3)

	body, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, body, "ok after retries")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestPageFetcher_NoRetryOnClientError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5 * time.Second)
	fastRetries(fetcher, 3)

	_, err := fetcher.Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "4xx must not be retried")
}

func TestPageFetcher_GzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		gz.Write([]byte("contenido comprimido"))
		gz.Close()
	}))
	defer server.Close()

	fetcher := NewPageFetcher(5 * time.Second)
	body, err := fetcher.Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "contenido comprimido", body)
}

func TestPageFetcher_InvalidURL(t *testing.T) {
	fetcher := NewPageFetcher(time.Second)

	_, err := fetcher.Fetch(context.Background(), "")
	assert.Error(t, err)

	_, err = fetcher.Fetch(context.Background(), "ultimosismo.igp.gob.pe")
	assert.Error(t, err)
}

func TestPageFetcher_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fetcher := NewPageFetcher(time.Second)
	fastRetries(fetcher, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, server.URL)
	require.Error(t, err)
}
