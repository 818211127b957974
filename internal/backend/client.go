// Package backend calls the third-party factual-verification service.
// The service's response schema is not under our control, so claims and
// citations are decoded as raw objects and left for the merger's alias
// tables to interpret.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/util"
)

// Result is the tolerant decoding of a backend verification response
type Result struct {
	TrustScore *int                     `json:"trustScore"`
	Claims     []map[string]interface{} `json:"claims"`
	Citations  []map[string]interface{} `json:"citations"`
}

// Client talks to the factual-verification backend
type Client struct {
	httpClient *http.Client
	url        string
	apiKey     string
	userAgent  string
}

// NewClient creates a backend client from configuration
func NewClient(cfg model.BackendConfig, httpCfg model.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		url:       cfg.URL,
		apiKey:    cfg.APIKey,
		userAgent: httpCfg.UserAgent,
	}
}

// Verify submits text for factual verification. Network errors, non-2xx
// responses and undecodable bodies all return a nil result with an error;
// the caller converts that into the zero-trust fallback branch.
func (c *Client) Verify(ctx context.Context, text string) (*Result, error) {
	if c.url == "" {
		return nil, fmt.Errorf("backend URL not configured")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode backend response: %w", err)
	}

	return &result, nil
}
