// Package config — .transsrt.yaml configuration file support plus
// environment overrides.
//
// When a .transsrt.yaml file exists in the working directory it
// provides the base configuration; environment variables override
// individual fields on top of it, and command-line flags override
// both. A .env file, when present, is loaded before the environment
// is read.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = ".transsrt.yaml"

// Duration decodes either a Go duration string ("90s", "2m") or a bare
// number of seconds from YAML.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}
	var seconds int64
	if err := value.Decode(&seconds); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(time.Duration(seconds) * time.Second)
	return nil
}

// Config is the top-level .transsrt.yaml structure.
type Config struct {
	// Provider is the AI provider ID: google, groq, ollama, custom-openai.
	Provider string `yaml:"provider,omitempty"`
	// Model overrides the provider's default model.
	Model string `yaml:"model,omitempty"`
	// BaseURL overrides the provider's API base URL.
	BaseURL string `yaml:"base_url,omitempty"`
	// APIKey is the provider API key. Prefer the environment or the
	// credential store over writing it here.
	APIKey string `yaml:"api_key,omitempty"`
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string `yaml:"proxy,omitempty"`

	// ChunkSize is the number of entries translated per request.
	ChunkSize int `yaml:"chunk_size,omitempty"`
	// Overlap is the number of context entries repeated on each side
	// of a chunk.
	Overlap int `yaml:"overlap,omitempty"`
	// MaxConcurrent is the number of chunk requests in flight at once.
	MaxConcurrent int `yaml:"max_concurrent,omitempty"`
	// MaxAttempts is the retry budget per request, including the first try.
	MaxAttempts int `yaml:"max_attempts,omitempty"`

	// RequestTimeout bounds a single backend request.
	RequestTimeout Duration `yaml:"request_timeout,omitempty"`
	// PipelineTimeout bounds the whole run. Zero means no limit.
	PipelineTimeout Duration `yaml:"pipeline_timeout,omitempty"`

	// Prompt overrides the built-in system prompt.
	Prompt string `yaml:"prompt,omitempty"`
	// PromptFile points at a file holding the system prompt override.
	PromptFile string `yaml:"prompt_file,omitempty"`
}

// Default returns the configuration used when no file and no
// environment overrides are present.
func Default() Config {
	return Config{
		Provider:       "google",
		ChunkSize:      50,
		Overlap:        3,
		MaxConcurrent:  10,
		MaxAttempts:    3,
		RequestTimeout: Duration(120 * time.Second),
	}
}

// Load reads .transsrt.yaml from the given directory, fills defaults,
// and applies environment overrides. A missing file is not an error;
// defaults plus environment apply.
func Load(rootDir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		cfg = withDefaults(cfg)
	}

	// .env never overwrites variables already exported.
	_ = godotenv.Load(filepath.Join(rootDir, ".env"))

	cfg, err = applyEnv(cfg)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// withDefaults fills zero-valued fields a sparse YAML file left unset.
func withDefaults(cfg Config) Config {
	def := Default()
	if cfg.Provider == "" {
		cfg.Provider = def.Provider
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.MaxConcurrent == 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	return cfg
}

// applyEnv layers environment variables over the config.
func applyEnv(cfg Config) (Config, error) {
	if v := os.Getenv("TRANSSRT_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("TRANSSRT_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && cfg.APIKey == "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("CHUNK_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("CHUNK_SIZE: %w", err)
		}
		cfg.ChunkSize = n
	}
	if v := os.Getenv("MAX_CONCURRENT_REQUESTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("MAX_CONCURRENT_REQUESTS: %w", err)
		}
		cfg.MaxConcurrent = n
	}
	return cfg, nil
}

// Validate checks the configuration for internally consistent values.
func (c Config) Validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be at least 1, got %d", c.ChunkSize)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("overlap must not be negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkSize {
		return fmt.Errorf("overlap (%d) must be smaller than chunk_size (%d)", c.Overlap, c.ChunkSize)
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be at least 1, got %d", c.MaxConcurrent)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout)
	}
	if c.PipelineTimeout < 0 {
		return fmt.Errorf("pipeline_timeout must not be negative, got %s", c.PipelineTimeout)
	}
	if c.Prompt != "" && c.PromptFile != "" {
		return fmt.Errorf("prompt and prompt_file are mutually exclusive")
	}
	return nil
}

// Save writes the configuration to .transsrt.yaml in the given
// directory. The API key is never persisted to the file.
func Save(rootDir string, cfg Config) error {
	cfg.APIKey = ""
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	path := filepath.Join(rootDir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
