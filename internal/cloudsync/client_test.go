package cloudsync

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUpload_OK(t *testing.T) {
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/api/records/pet-1" {
			t.Fatalf("path = %s, want /api/records/pet-1", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("authorization = %q, want bearer token", got)
		}
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "secret")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	retry, err := client.Upload(ctx, "pet-1", []byte(`{"version":1}`))
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if retry != 0 {
		t.Fatalf("retryAfter = %v, want 0", retry)
	}
	if gotBody != `{"version":1}` {
		t.Fatalf("body = %q", gotBody)
	}
}

func TestUpload_TooManyRequests(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	retry, err := client.Upload(ctx, "pet-1", []byte(`{}`))
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
	if retry != 5*time.Second {
		t.Fatalf("retryAfter = %v, want 5s", retry)
	}
}

func TestDownload_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":1,"pet":"e30="}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "")

	doc, retry, err := client.Download(context.Background(), "pet-1")
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if retry != 0 {
		t.Fatalf("retryAfter = %v, want 0", retry)
	}
	if string(doc) != `{"version":1,"pet":"e30="}` {
		t.Fatalf("doc = %s", doc)
	}
}

func TestDownload_NotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, _, err := NewClient(ts.URL, "").Download(context.Background(), "pet-1")
	if !errors.Is(err, ErrNoRecord) {
		t.Fatalf("err = %v, want ErrNoRecord", err)
	}
}

func TestDownload_UnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, _, err := NewClient(ts.URL, "").Download(context.Background(), "pet-1")
	if err == nil {
		t.Fatalf("expected error for 500")
	}
}

func TestClientNotConfigured(t *testing.T) {
	var c *Client
	if _, err := c.Upload(context.Background(), "pet-1", nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("nil client err = %v, want ErrNotConfigured", err)
	}
	if _, _, err := NewClient("", "").Download(context.Background(), "pet-1"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("empty address err = %v, want ErrNotConfigured", err)
	}
}

func TestNewClientAddsScheme(t *testing.T) {
	c := NewClient("localhost:9090/", "")
	if c.baseURL != "http://localhost:9090" {
		t.Fatalf("baseURL = %q", c.baseURL)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("12"); got != 12*time.Second {
		t.Fatalf("seconds form = %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Fatalf("garbage = %v, want 0", got)
	}
	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 {
		t.Fatalf("date form = %v, want positive", got)
	}
}
