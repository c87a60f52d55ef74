package model

import "time"

// Config is the complete finbrief configuration tree.
// It is built once at process start (defaults + config file + env + flags)
// and passed down; no package reads configuration globals.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	HTTP    HTTPConfig    `yaml:"http"`
	Cache   CacheConfig   `yaml:"cache"`
	Search  SearchConfig  `yaml:"search"`
	Market  MarketConfig  `yaml:"market"`
	Team    TeamConfig    `yaml:"team"`
	Session SessionConfig `yaml:"session"`
	Output  OutputConfig  `yaml:"output"`
}

// LLMConfig configures the model provider shared by all agents
type LLMConfig struct {
	// Provider name: "openai", "gemini", "ollama"
	Provider string `yaml:"provider"`

	// Model name (provider-specific, e.g. gpt-4o-mini, gemini-2.5-flash)
	Model string `yaml:"model"`

	// APIKey for hosted providers (usually set via environment)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g. Ollama, OpenAI-compatible proxies)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for a single completion request, in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens for response generation
	MaxTokens int `yaml:"max_tokens"`

	// Temperature for completions; analysis agents want it low
	Temperature float32 `yaml:"temperature"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// HTTPConfig configures outbound HTTP for the tool layer
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig configures the in-memory tool response cache
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// SearchConfig configures the web search tool
type SearchConfig struct {
	// BaseURL of the HTML search endpoint
	BaseURL string `yaml:"base_url"`

	// MaxResults caps how many results are returned per search
	MaxResults int `yaml:"max_results"`

	// RespectRobots checks robots.txt before fetching result pages
	RespectRobots bool `yaml:"respect_robots"`

	// RequestsPerSecond and Burst feed the per-domain rate limiter
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// MarketConfig configures the market data tool
type MarketConfig struct {
	// BaseURL of the quote chart endpoint
	BaseURL string `yaml:"base_url"`

	// QuoteTTL is how long a fetched quote stays cached
	QuoteTTL time.Duration `yaml:"quote_ttl"`

	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// TeamConfig configures the analysis team run
type TeamConfig struct {
	// MaxTurns bounds the tool-call loop of each member agent
	MaxTurns int `yaml:"max_turns"`

	// MemberTimeout bounds a single member's contribution
	MemberTimeout time.Duration `yaml:"member_timeout"`
}

// SessionConfig configures persistent session storage
type SessionConfig struct {
	// Path of the SQLite database file
	Path string `yaml:"path"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash",
			Timeout:     60,
			MaxTokens:   2000,
			Temperature: 0.3,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Finbrief/0.1 (+https://github.com/finbrief/finbrief)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             10 * time.Minute,
			CleanupInterval: 15 * time.Minute,
		},
		Search: SearchConfig{
			BaseURL:           "https://html.duckduckgo.com/html/",
			MaxResults:        8,
			RespectRobots:     true,
			RequestsPerSecond: 1,
			Burst:             3,
		},
		Market: MarketConfig{
			BaseURL:           "https://query1.finance.yahoo.com/v8/finance/chart",
			QuoteTTL:          5 * time.Minute,
			RequestsPerSecond: 2,
			Burst:             5,
		},
		Team: TeamConfig{
			MaxTurns:      6,
			MemberTimeout: 3 * time.Minute,
		},
		Session: SessionConfig{
			Path: "tmp/finbrief.db",
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
