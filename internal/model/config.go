package model

import "time"

// Config holds the complete specsift configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Segment     SegmentConfig     `yaml:"segmentation"`
	Output      OutputConfig      `yaml:"output"`
}

// LLMConfig configures the inference service backend
type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, anthropic, ollama
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`

	// Timeout is the per-call timeout in seconds
	Timeout   int `yaml:"timeout"`
	MaxTokens int `yaml:"max_tokens"`

	// Retries is the number of additional attempts on transport failure.
	// Parse failures are never retried; the fallback classification
	// covers them.
	Retries int `yaml:"retries"`

	// RequestsPerSecond rate-limits inference calls across all workers
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// Proxy settings
	HTTPProxy  string `yaml:"http_proxy,omitempty"`
	HTTPSProxy string `yaml:"https_proxy,omitempty"`
	NoProxy    string `yaml:"no_proxy,omitempty"`
}

// HTTPConfig configures fetching of remote source documents
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// CacheConfig configures the inference response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir,omitempty"` // empty disables the disk layer
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig bounds the worker pools
type ConcurrencyConfig struct {
	ClassifyWorkers int `yaml:"classify_workers"`
	LoadWorkers     int `yaml:"load_workers"`
}

// SegmentConfig configures document chunking
type SegmentConfig struct {
	// ChunkTokens is the per-chunk budget, measured as a whitespace
	// token count rather than an exact tokenizer.
	ChunkTokens int `yaml:"chunk_tokens"`
}

// OutputConfig configures artifact persistence
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "openai",
			Model:             "",
			Timeout:           60,
			MaxTokens:         2000,
			Retries:           1,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Specsift/0.1 (+https://github.com/stephen-devops/specsift)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			ClassifyWorkers: 4,
			LoadWorkers:     4,
		},
		Segment: SegmentConfig{
			ChunkTokens: 3000,
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}
