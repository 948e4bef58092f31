// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Defaults applied by the CLI when neither flags nor config set a value.
const (
	DefaultModel      = "gpt-4o"
	DefaultAPIKeyEnv  = "OPENAI_API_KEY"
	DefaultDotenvFile = ".env"
	DefaultDelay      = 1200 * time.Millisecond
	DefaultTitlesFile = "slide_titles.txt"
	DefaultComposeOut = "output.pdf"
	DefaultMergeOut   = "combined.pdf"
	DefaultMaxRetries = 3

	// DefaultMaxImageSide matches the largest side OpenAI keeps for
	// high-detail images; larger slides are scaled down before upload.
	DefaultMaxImageSide = 2048
)

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout bounds a single API request. Zero leaves the client default.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// VisionConfig holds settings for title and outline extraction.
type VisionConfig struct {
	AIConfig `yaml:",inline"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env"`

	// DotenvFile is loaded into the environment before APIKeyEnv is read.
	// Existing variables are never overridden.
	DotenvFile string `json:"dotenv_file" yaml:"dotenv_file"`

	// Delay separates successive remote calls in a batch (default 1.2s).
	Delay time.Duration `json:"delay" yaml:"delay"`

	// TitlesFile is the numbered title list written inside the image directory.
	TitlesFile string `json:"titles_file" yaml:"titles_file"`

	// MaxImageSide bounds the longer side of an uploaded image. Zero sends
	// the file unchanged.
	MaxImageSide int `json:"max_image_side" yaml:"max_image_side"`
}

// ComposeConfig holds settings for the image-to-PDF composer.
type ComposeConfig struct {
	// ImageDir is the directory holding the slide images.
	ImageDir string `json:"image_dir" yaml:"image_dir"`

	// Output is the PDF filename, written inside ImageDir.
	Output string `json:"output" yaml:"output"`
}

// MergeConfig holds settings for the PDF merger.
type MergeConfig struct {
	// InputDir is joined with each entry's File to locate the source PDF.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// Output is the path of the combined PDF.
	Output string `json:"output" yaml:"output"`
}

// CacheConfig controls the on-disk cache of vision responses.
type CacheConfig struct {
	// Path is the SQLite database file. Empty disables caching.
	Path string `json:"path" yaml:"path"`
}

// LogConfig selects the logger mode and minimum level.
type LogConfig struct {
	// Mode is "dev" (console encoder) or "prod" (JSON encoder).
	Mode string `json:"mode" yaml:"mode"`

	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`
}
