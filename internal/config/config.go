package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dodai/navigator/internal/utils"
)

// Config holds all navigator settings.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Search SearchConfig `yaml:"search"`
	LLM    LLMConfig    `yaml:"llm"`
	Share  ShareConfig  `yaml:"share"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

type StoreConfig struct {
	Path         string `yaml:"path"`
	DefaultLimit int    `yaml:"default_limit"`
	// MaxLimit caps list page size; 0 disables the cap.
	MaxLimit int `yaml:"max_limit"`
}

type SearchConfig struct {
	// IndexPath is the bleve index directory; empty disables search.
	IndexPath string `yaml:"index_path"`
}

// LLMConfig configures the remote model used for analyses.
type LLMConfig struct {
	Provider     string        `yaml:"provider"` // openrouter, gemini
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	GeminiModel  string        `yaml:"gemini_model"`
	MaxTokens    int           `yaml:"max_tokens"`
	Temperature  float64       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
	SiteURL      string        `yaml:"site_url"`
	SiteName     string        `yaml:"site_name"`
}

type ShareConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

// Default returns the settings used when no file or environment overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8000",
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
				"https://dodai-questionnaire.vercel.app",
			},
			ShutdownGrace: 10 * time.Second,
		},
		Store: StoreConfig{
			Path:         "survey_responses.db",
			DefaultLimit: 100,
			MaxLimit:     500,
		},
		Search: SearchConfig{IndexPath: "survey_index.bleve"},
		LLM: LLMConfig{
			Provider:    ProviderOpenRouter,
			BaseURL:     "https://openrouter.ai/api/v1",
			Model:       "microsoft/phi-3-mini-128k-instruct:free",
			GeminiModel: "gemini-2.0-flash",
			MaxTokens:   800,
			Temperature: 0.7,
			SiteName:    "AI Navigator",
		},
		Share: ShareConfig{TTL: 30 * 24 * time.Hour},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads path (a missing file means defaults), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.Server.Addr = utils.SafeEnv("NAVIGATOR_ADDR", c.Server.Addr)
	if origins := utils.SafeEnv("NAVIGATOR_ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = parseList(origins)
	}
	c.Store.Path = utils.SafeEnv("NAVIGATOR_DB", c.Store.Path)
	if v := utils.SafeEnv("NAVIGATOR_MAX_LIST_LIMIT", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NAVIGATOR_MAX_LIST_LIMIT: %w", err)
		}
		c.Store.MaxLimit = n
	}
	if v, ok := os.LookupEnv("NAVIGATOR_INDEX_PATH"); ok {
		c.Search.IndexPath = v
	}
	c.LLM.Provider = utils.SafeEnv("NAVIGATOR_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.APIKey = utils.SafeEnv("OPENROUTER_API_KEY", c.LLM.APIKey)
	c.LLM.BaseURL = utils.SafeEnv("OPENROUTER_BASE_URL", c.LLM.BaseURL)
	c.LLM.Model = utils.SafeEnv("OPENROUTER_MODEL", c.LLM.Model)
	c.LLM.GeminiAPIKey = utils.SafeEnv("GEMINI_API_KEY", c.LLM.GeminiAPIKey)
	c.LLM.GeminiModel = utils.SafeEnv("GEMINI_MODEL", c.LLM.GeminiModel)
	c.Share.Secret = utils.SafeEnv("NAVIGATOR_SHARE_SECRET", c.Share.Secret)
	c.Log.Level = utils.SafeEnv("NAVIGATOR_LOG_LEVEL", c.Log.Level)
	return nil
}

// Validate checks for settings the service cannot start without. Missing API
// keys are not errors: analyses then use the static fallback.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store.path must be set")
	}
	if c.Store.DefaultLimit <= 0 {
		return errors.New("store.default_limit must be positive")
	}
	if c.Store.MaxLimit < 0 {
		return errors.New("store.max_limit must not be negative")
	}
	if c.Store.MaxLimit > 0 && c.Store.DefaultLimit > c.Store.MaxLimit {
		return errors.New("store.default_limit must not exceed store.max_limit")
	}
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.max_tokens must be positive")
	}
	if c.Share.TTL <= 0 {
		return errors.New("share.ttl must be positive")
	}
	return nil
}

// RemoteConfigured reports whether the selected provider has an API key.
func (c LLMConfig) RemoteConfigured() bool {
	if c.Provider == ProviderGemini {
		return strings.TrimSpace(c.GeminiAPIKey) != ""
	}
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.BaseURL) != ""
}

func parseList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
