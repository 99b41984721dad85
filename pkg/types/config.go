package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "canvas-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the block store.
type StoreConfig struct {
	// DataDir is the base directory for canvas data (contains index/).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of list results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// SynthesisConfig holds tunable caps for the summarizer. Zero values
// select the package defaults.
type SynthesisConfig struct {
	// MaxLineWords caps the word count of a single rendered bullet line
	// before truncation (default 24).
	MaxLineWords int `json:"max_line_words" yaml:"max_line_words"`

	// AboutLines caps the "What this seems to be about" section (default 2).
	AboutLines int `json:"about_lines" yaml:"about_lines"`

	// TensionUnits caps the units merged into the tensions line (default 4).
	TensionUnits int `json:"tension_units" yaml:"tension_units"`

	// ReadNextBlocks caps the "Best blocks to read next" section (default 3).
	ReadNextBlocks int `json:"read_next_blocks" yaml:"read_next_blocks"`
}

// RemoteConfig holds settings for the hosted summarizer client.
type RemoteConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the summarization service endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates the service call.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate limiting (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CanvasConfig groups all stage configurations.
type CanvasConfig struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Remote    RemoteConfig    `json:"remote" yaml:"remote"`
}
