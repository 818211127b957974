package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	HTTP     HTTPConfig     `yaml:"http"`
	Backend  BackendConfig  `yaml:"backend"`
	LLM      LLMConfig      `yaml:"llm"`
	Probe    ProbeConfig    `yaml:"probe"`
	Reverify ReverifyConfig `yaml:"reverify"`
	History  HistoryConfig  `yaml:"history"`
	Output   OutputConfig   `yaml:"output"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address, e.g. ":8080"
}

// HTTPConfig configures outbound HTTP behavior shared by the clients
type HTTPConfig struct {
	UserAgent  string `yaml:"user_agent"`
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
	NoProxy    string `yaml:"no_proxy"`
}

// BackendConfig configures the factual-verification backend client
type BackendConfig struct {
	URL     string        `yaml:"url"`     // Verification endpoint
	APIKey  string        `yaml:"api_key"` // Optional bearer token
	Timeout time.Duration `yaml:"timeout"`
}

// LLMConfig configures the AI-insight provider
type LLMConfig struct {
	Model     string `yaml:"model"`    // Chat model name
	APIKey    string `yaml:"api_key"`  // From OPENAI_API_KEY if empty
	BaseURL   string `yaml:"base_url"` // Custom endpoint (optional)
	Timeout   int    `yaml:"timeout"`  // Seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// ProbeConfig configures the live URL probe
type ProbeConfig struct {
	Timeout           time.Duration `yaml:"timeout"`       // Hard per-probe cap
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	MaxWorkers        int           `yaml:"max_workers"` // Concurrent probes during re-verification
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	RespectRobots     bool          `yaml:"respect_robots"` // Off by default: probes mimic a browser fetch
	CacheEnabled      bool          `yaml:"cache_enabled"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	CacheDir          string        `yaml:"cache_dir"`
}

// ReverifyConfig configures citation re-verification during Verify
type ReverifyConfig struct {
	Enabled bool `yaml:"enabled"` // Re-probe merged citations before returning
}

// HistoryConfig configures verification history persistence
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite database file
}

// OutputConfig configures CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		HTTP: HTTPConfig{
			UserAgent: "Veracity/0.1 (+https://github.com/ppiankov/veracity)",
		},
		Backend: BackendConfig{
			Timeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 2000,
		},
		Probe: ProbeConfig{
			Timeout:           5 * time.Second,
			MaxBodyBytes:      2_000_000,
			MaxWorkers:        20,
			RequestsPerSecond: 4,
			Burst:             5,
			RespectRobots:     false,
			CacheEnabled:      true,
			CacheTTL:          5 * time.Minute,
		},
		Reverify: ReverifyConfig{
			Enabled: false,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "veracity.db",
		},
	}
}
