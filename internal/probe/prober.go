// Package probe performs bounded live checks of citation URLs. A probe
// classifies reachability and extracts the page title and a short text
// preview. Probes never fail: every network or protocol error is folded
// into an unreachable result.
package probe

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/veracity/internal/cache"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/util"
)

// Result is the outcome of probing a single URL
type Result struct {
	Exists     bool   `json:"exists"`
	HTTPStatus int    `json:"httpStatus"`
	Title      string `json:"title,omitempty"`
	Preview    string `json:"preview,omitempty"`
}

// Prober fetches URLs with a hard per-probe timeout
type Prober struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxBytes   int64
	limiter    *Limiter
	robots     *util.RobotsChecker
	results    cache.Cache
	cacheTTL   time.Duration
}

// New creates a Prober from configuration. Redirects are followed; the
// per-probe timeout is enforced through request contexts so a stalled
// server cannot hold a probe past its deadline.
func New(cfg model.ProbeConfig, httpCfg model.HTTPConfig) *Prober {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	p := &Prober{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		userAgent: httpCfg.UserAgent,
		timeout:   timeout,
		maxBytes:  maxBytes,
	}

	if cfg.RequestsPerSecond > 0 {
		p.limiter = NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}
	if cfg.RespectRobots {
		p.robots = util.NewRobotsChecker(httpCfg.UserAgent, timeout)
	}
	if cfg.CacheEnabled {
		ttl := cfg.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		p.cacheTTL = ttl
		if cfg.CacheDir != "" {
			p.results = cache.NewLayeredCache(ttl, cfg.CacheDir, ttl)
		} else {
			p.results = cache.NewMemoryCache(ttl, 10*time.Minute)
		}
	}

	return p
}

// Probe checks a single URL. Empty URLs, the "unknown" sentinel and
// non-http schemes are rejected without touching the network.
func (p *Prober) Probe(ctx context.Context, rawURL string) Result {
	if rawURL == "" || rawURL == model.UnknownURL || !strings.HasPrefix(rawURL, "http") {
		return Result{}
	}

	if p.results != nil {
		if raw, found := p.results.Get(cache.Key(rawURL)); found {
			var cached Result
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached
			}
		}
	}

	result := p.probeLive(ctx, rawURL)

	if p.results != nil {
		if raw, err := json.Marshal(result); err == nil {
			_ = p.results.Set(cache.Key(rawURL), raw, p.cacheTTL)
		}
	}

	return result
}

func (p *Prober) probeLive(ctx context.Context, rawURL string) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// A robots.txt disallow skips the page fetch entirely.
	if p.robots != nil && !p.robots.Allowed(ctx, rawURL) {
		return Result{}
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, rawURL); err != nil {
			return Result{}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// Timeouts, DNS failures and refused connections all classify
		// the URL as unreachable.
		return Result{}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{HTTPStatus: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes))
	if err != nil {
		// Reachable even if the body could not be read in full.
		return Result{Exists: true, HTTPStatus: resp.StatusCode}
	}

	html := string(body)
	return Result{
		Exists:     true,
		HTTPStatus: resp.StatusCode,
		Title:      extractTitle(html),
		Preview:    extractPreview(html, previewLimit),
	}
}
