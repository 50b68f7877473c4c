package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetcherRun(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte("<rss/>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "Shownotes Comb/test")
	data, err := fetcher.Run(context.Background(), server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if string(data) != "<rss/>" {
		t.Errorf("Expected body '<rss/>', got: %s", data)
	}
	if gotUserAgent != "Shownotes Comb/test" {
		t.Errorf("Expected user agent 'Shownotes Comb/test', got: %s", gotUserAgent)
	}
}

func TestFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcher(server.Client(), "test")
	_, err := fetcher.Run(context.Background(), server.URL, 5*time.Second)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
	if fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got: %d", fetchErr.StatusCode)
	}
}

func TestFetcherUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	fetcher := NewFetcher(http.DefaultClient, "test")
	_, err := fetcher.Run(context.Background(), url, time.Second)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got: %v", err)
	}
	if fetchErr.StatusCode != 0 {
		t.Errorf("Expected no status code for transport failure, got: %d", fetchErr.StatusCode)
	}
}

func TestFetcherStatusCodes(t *testing.T) {
	tests := []struct {
		status  int
		success bool
	}{
		{http.StatusOK, true},
		{http.StatusCreated, true},
		{http.StatusNonAuthoritativeInfo, true},
		{http.StatusNotModified, false},
		{http.StatusNotFound, false},
		{http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("<rss/>"))
			}))
			defer server.Close()

			fetcher := NewFetcher(server.Client(), "test")
			_, err := fetcher.Run(context.Background(), server.URL, 5*time.Second)

			if tt.success && err != nil {
				t.Errorf("Expected status %d to succeed, got: %v", tt.status, err)
			}
			if !tt.success {
				var fetchErr *FetchError
				if !errors.As(err, &fetchErr) || fetchErr.StatusCode != tt.status {
					t.Errorf("Expected FetchError with status %d, got: %v", tt.status, err)
				}
			}
		})
	}
}
