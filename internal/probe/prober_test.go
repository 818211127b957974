package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/model"
)

func newTestProber(cacheEnabled bool) *Prober {
	cfg := model.DefaultConfig()
	cfg.Probe.CacheEnabled = cacheEnabled
	cfg.Probe.RequestsPerSecond = 100
	return New(cfg.Probe, cfg.HTTP)
}

func TestProbe_RejectsWithoutNetworkCall(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	p := newTestProber(false)

	tests := []struct {
		url  string
		desc string
	}{
		{"", "empty URL"},
		{model.UnknownURL, "unknown sentinel"},
		{"ftp://example.com/file", "non-http scheme"},
		{"not a url", "garbage input"},
	}

	for _, tt := range tests {
		result := p.Probe(context.Background(), tt.url)
		if result.Exists {
			t.Errorf("%s: expected Exists=false", tt.desc)
		}
		if result.HTTPStatus != 0 {
			t.Errorf("%s: expected status 0, got %d", tt.desc, result.HTTPStatus)
		}
	}

	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("expected no network calls for rejected URLs, got %d", hits)
	}
}

func TestProbe_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET request, got %s", r.Method)
		}
		if !strings.HasPrefix(r.Header.Get("User-Agent"), "Veracity/") {
			t.Errorf("expected descriptive user agent, got %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Example Domain</title>
			<script>var hidden = "nope";</script>
			<style>body { color: red; }</style></head>
			<body><p>This   domain is for use in
			illustrative examples.</p></body></html>`))
	}))
	defer server.Close()

	p := newTestProber(false)
	result := p.Probe(context.Background(), server.URL)

	if !result.Exists {
		t.Fatal("expected Exists=true for 200 response")
	}
	if result.HTTPStatus != http.StatusOK {
		t.Errorf("expected status 200, got %d", result.HTTPStatus)
	}
	if result.Title != "Example Domain" {
		t.Errorf("expected title Example Domain, got %q", result.Title)
	}
	if strings.Contains(result.Preview, "hidden") || strings.Contains(result.Preview, "color") {
		t.Errorf("expected script/style content to be stripped, got %q", result.Preview)
	}
	if !strings.Contains(result.Preview, "This domain is for use in illustrative examples.") {
		t.Errorf("expected collapsed body text in preview, got %q", result.Preview)
	}
}

func TestProbe_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p := newTestProber(false)
	result := p.Probe(context.Background(), server.URL)

	if result.Exists {
		t.Error("expected Exists=false for 404")
	}
	if result.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", result.HTTPStatus)
	}
}

func TestProbe_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	p := newTestProber(false)
	result := p.Probe(context.Background(), url)

	if result.Exists {
		t.Error("expected Exists=false for refused connection")
	}
	if result.HTTPStatus != 0 {
		t.Errorf("expected status 0 for network error, got %d", result.HTTPStatus)
	}
}

func TestProbe_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.Probe.CacheEnabled = false
	cfg.Probe.RequestsPerSecond = 0
	cfg.Probe.Timeout = 50 * time.Millisecond
	p := New(cfg.Probe, cfg.HTTP)

	result := p.Probe(context.Background(), server.URL)

	if result.Exists {
		t.Error("expected Exists=false for timed-out probe")
	}
	if result.HTTPStatus != 0 {
		t.Errorf("expected status 0 for timeout, got %d", result.HTTPStatus)
	}
}

func TestProbe_FollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><head><title>Final</title></head></html>"))
	}))
	defer final.Close()

	redirect := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusMovedPermanently)
	}))
	defer redirect.Close()

	p := newTestProber(false)
	result := p.Probe(context.Background(), redirect.URL)

	if !result.Exists {
		t.Fatal("expected redirected probe to succeed")
	}
	if result.Title != "Final" {
		t.Errorf("expected title from redirect target, got %q", result.Title)
	}
}

func TestProbe_CachesResults(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html><head><title>Cached</title></head></html>"))
	}))
	defer server.Close()

	p := newTestProber(true)

	first := p.Probe(context.Background(), server.URL)
	second := p.Probe(context.Background(), server.URL)

	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected exactly one network call, got %d", hits)
	}
	if first != second {
		t.Errorf("expected identical cached result, got %+v vs %+v", first, second)
	}
}
