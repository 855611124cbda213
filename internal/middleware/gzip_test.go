package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const petJSON = `{"id":"p1","name":"Mochi","stats":{"hunger":80}}`

func gzipBytes(t *testing.T, s string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return &buf
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()

	var r io.Reader = res.Body
	if res.Header.Get("Content-Encoding") == "gzip" {
		zr, err := gzip.NewReader(res.Body)
		if err != nil {
			t.Fatalf("new gzip reader: %v", err)
		}
		defer zr.Close()
		r = zr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

// petAPI отдаёт питомца на GET и возвращает принятую резервную копию на POST.
func petAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet {
		_, _ = w.Write([]byte(petJSON))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func TestGzipMiddleware(t *testing.T) {
	backupDoc := `{"version":1,"pet":"eyJpZCI6InAxIn0=","streak":3}`

	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		gzipBody     bool
		acceptGzip   bool
		wantEncoding string
		wantBody     string
	}{
		{
			name:         "pet view compressed for gzip clients",
			method:       http.MethodGet,
			target:       "/api/pet",
			acceptGzip:   true,
			wantEncoding: "gzip",
			wantBody:     petJSON,
		},
		{
			name:     "pet view plain without Accept-Encoding",
			method:   http.MethodGet,
			target:   "/api/pet",
			wantBody: petJSON,
		},
		{
			name:     "gzipped backup upload",
			method:   http.MethodPost,
			target:   "/api/backup",
			body:     backupDoc,
			gzipBody: true,
			wantBody: backupDoc,
		},
		{
			name:         "gzipped backup upload with gzipped reply",
			method:       http.MethodPost,
			target:       "/api/backup",
			body:         backupDoc,
			gzipBody:     true,
			acceptGzip:   true,
			wantEncoding: "gzip",
			wantBody:     backupDoc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(tt.body)
			if tt.gzipBody {
				body = gzipBytes(t, tt.body)
			}

			req := httptest.NewRequest(tt.method, tt.target, body)
			if tt.gzipBody {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptGzip {
				req.Header.Set("Accept-Encoding", "gzip, deflate")
			}
			w := httptest.NewRecorder()

			GzipMiddleware(http.HandlerFunc(petAPI)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			if res.StatusCode != http.StatusOK {
				t.Fatalf("status: got %d want %d", res.StatusCode, http.StatusOK)
			}
			if ct := res.Header.Get("Content-Type"); ct != "application/json" {
				t.Fatalf("content-type: got %q want application/json", ct)
			}
			if ce := res.Header.Get("Content-Encoding"); ce != tt.wantEncoding {
				t.Fatalf("content-encoding: got %q want %q", ce, tt.wantEncoding)
			}
			if got := readBody(t, res); got != tt.wantBody {
				t.Fatalf("body: got %q want %q", got, tt.wantBody)
			}
		})
	}
}

func TestGzipMiddleware_SkipsBodylessAndErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "no content", status: http.StatusNoContent},
		{name: "payment required", status: http.StatusPaymentRequired, body: "insufficient funds\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			req := httptest.NewRequest(http.MethodPost, "/api/pet/feed", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			w := httptest.NewRecorder()

			GzipMiddleware(next).ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status: got %d want %d", w.Code, tt.status)
			}
			if ce := w.Header().Get("Content-Encoding"); ce != "" {
				t.Fatalf("content-encoding: got %q want none", ce)
			}
			if w.Body.String() != tt.body {
				t.Fatalf("body: got %q want %q", w.Body.String(), tt.body)
			}
		})
	}
}

func TestGzipMiddleware_ImplicitStatus(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"level":3}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/pet", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	GzipMiddleware(next).ServeHTTP(w, req)

	if ce := w.Header().Get("Content-Encoding"); ce != "gzip" {
		t.Fatalf("content-encoding: got %q want gzip", ce)
	}
	gr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("new gzip reader: %v", err)
	}
	body, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != `{"level":3}` {
		t.Fatalf("body: got %q", body)
	}
}

func TestGzipMiddleware_BrokenRequestBody(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/backup", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()

	GzipMiddleware(next).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d want %d", w.Code, http.StatusBadRequest)
	}
}
