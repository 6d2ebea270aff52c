package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/agri-advisor/internal/knowledge"
	"github.com/danielpatrickdp/agri-advisor/internal/logging"
	"github.com/danielpatrickdp/agri-advisor/internal/profile"
	"github.com/danielpatrickdp/agri-advisor/internal/prompt"
)

// #region types
// Config is the full advisor configuration.
type Config struct {
	DBPath     string           `yaml:"db_path"`
	HTTPAddr   string           `yaml:"http_addr"`
	Generation Generation       `yaml:"generation"`
	Response   Response         `yaml:"response"`
	Profile    Profile          `yaml:"profile"`
	Knowledge  knowledge.Config `yaml:"knowledge"`
	Weather    Weather          `yaml:"weather"`
	Logging    logging.Options  `yaml:"logging"`
}

// Generation selects and configures the text-generation backend.
type Generation struct {
	Backend string        `yaml:"backend"` // "grpc" or "gemini"
	Addr    string        `yaml:"addr"`
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// Response holds the default answer format.
type Response struct {
	Language string       `yaml:"language"`
	MaxWords int          `yaml:"max_words"`
	Markdown bool         `yaml:"markdown"`
	Emojis   bool         `yaml:"emojis"`
	Style    prompt.Style `yaml:"style"`
}

type Profile struct {
	Policy profile.Policy `yaml:"policy"`
}

type Weather struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

const (
	BackendGRPC   = "grpc"
	BackendGemini = "gemini"
)

// #endregion types

// #region defaults
// Default returns the built-in configuration.
func Default() Config {
	opts := prompt.DefaultOptions()
	return Config{
		DBPath:   "agri_advisor.db",
		HTTPAddr: ":8080",
		Generation: Generation{
			Backend: BackendGRPC,
			Addr:    "localhost:50051",
			Timeout: 30 * time.Second,
		},
		Response: Response{
			Language: opts.Language,
			MaxWords: opts.MaxWords,
			Markdown: opts.Markdown,
			Emojis:   opts.Emojis,
			Style:    opts.Style,
		},
		Profile:   Profile{Policy: profile.PolicyRequireProfile},
		Knowledge: knowledge.DefaultConfig(),
		Weather:   Weather{CacheTTL: time.Hour},
		Logging:   logging.Options{Level: "info"},
	}
}

// #endregion defaults

// #region load
// Load reads an optional YAML file over Default, applies environment overrides
// and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv reads AGRI_DB, AGRI_HTTP_ADDR, AGRI_GEN_BACKEND, AGRI_GEN_ADDR,
// GEMINI_API_KEY, AGRI_GEN_MODEL, AGRI_GEN_TIMEOUT, AGRI_MAX_WORDS,
// AGRI_PROFILE_POLICY and AGRI_LOG_LEVEL.
func (c *Config) applyEnv() error {
	c.DBPath = envOr("AGRI_DB", c.DBPath)
	c.HTTPAddr = envOr("AGRI_HTTP_ADDR", c.HTTPAddr)
	c.Generation.Backend = envOr("AGRI_GEN_BACKEND", c.Generation.Backend)
	c.Generation.Addr = envOr("AGRI_GEN_ADDR", c.Generation.Addr)
	c.Generation.APIKey = envOr("GEMINI_API_KEY", c.Generation.APIKey)
	c.Generation.Model = envOr("AGRI_GEN_MODEL", c.Generation.Model)
	c.Profile.Policy = profile.Policy(envOr("AGRI_PROFILE_POLICY", string(c.Profile.Policy)))
	c.Logging.Level = envOr("AGRI_LOG_LEVEL", c.Logging.Level)

	if v := os.Getenv("AGRI_GEN_TIMEOUT"); v != "" {
		d, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("AGRI_GEN_TIMEOUT: %w", err)
		}
		c.Generation.Timeout = d
	}
	if v := os.Getenv("AGRI_MAX_WORDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGRI_MAX_WORDS: %w", err)
		}
		c.Response.MaxWords = n
	}
	return nil
}

// parseTimeout accepts a Go duration ("45s") or whole seconds ("45").
func parseTimeout(v string) (time.Duration, error) {
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load

// #region validate
// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Generation.Backend {
	case BackendGRPC:
		if c.Generation.Addr == "" {
			errs = append(errs, errors.New("generation.addr is required for the grpc backend"))
		}
	case BackendGemini:
		if c.Generation.APIKey == "" {
			errs = append(errs, errors.New("generation.api_key (GEMINI_API_KEY) is required for the gemini backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown generation backend %q", c.Generation.Backend))
	}
	if c.Generation.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("generation.timeout must be positive, got %s", c.Generation.Timeout))
	}
	if c.Response.MaxWords <= 0 {
		errs = append(errs, fmt.Errorf("response.max_words must be positive, got %d", c.Response.MaxWords))
	}
	if !prompt.Supported(c.Response.Language) {
		errs = append(errs, fmt.Errorf("unsupported response language %q", c.Response.Language))
	}
	if !c.Profile.Policy.Valid() {
		errs = append(errs, fmt.Errorf("unknown profile policy %q", c.Profile.Policy))
	}
	if c.Knowledge.TopPerCategory <= 0 || c.Knowledge.MaxKeywords <= 0 {
		errs = append(errs, errors.New("knowledge limits must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// #endregion validate
