// Package config assembles the service configuration from defaults, an
// optional YAML file, a .env file and MINDPATH_* environment variables, in
// that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/llm"
	"github.com/abhisek/mindpath/internal/logger"
	"github.com/abhisek/mindpath/internal/server"
	"github.com/abhisek/mindpath/internal/session"
)

// EnvConfigPath names the variable that points at a YAML config file.
const EnvConfigPath = "MINDPATH_CONFIG"

// Config is the full service configuration.
type Config struct {
	Server     server.Config     `yaml:"server"`
	Store      StoreConfig       `yaml:"store"`
	LLM        llm.Config        `yaml:"llm"`
	Content    content.Config    `yaml:"content"`
	Session    session.Config    `yaml:"session"`
	Adaptation adaptation.Config `yaml:"adaptation"`
	Diagnostic diagnostic.Config `yaml:"diagnostic"`
	Log        logger.Options    `yaml:"log"`
}

// StoreConfig locates the SQLite database. An empty Path means the
// default data directory.
type StoreConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:     server.DefaultConfig(),
		LLM:        llm.DefaultConfig(),
		Content:    content.DefaultConfig(),
		Session:    session.DefaultConfig(),
		Adaptation: adaptation.DefaultConfig(),
		Diagnostic: diagnostic.DefaultConfig(),
		Log:        logger.DefaultOptions(),
	}
}

// Load builds the configuration. path may be empty, in which case
// MINDPATH_CONFIG is consulted; a missing file is only an error when one
// was asked for explicitly.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	cfg.discoverProvider()

	// Generation timeouts follow the LLM budget.
	cfg.Content.Timeout = cfg.LLM.Timeout

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// loadDotEnv loads KEY=VALUE pairs without overriding variables that are
// already set. A missing file is fine.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	llm.ApplyEnv(&c.LLM)

	setString(&c.Server.Addr, "MINDPATH_ADDR")
	setString(&c.Server.Mode, "MINDPATH_GIN_MODE")
	if v := os.Getenv("MINDPATH_CORS_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Store.Path, "MINDPATH_DB")
	if v := os.Getenv("MINDPATH_DB_DISABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Store.Disabled = b
		}
	}

	setDuration(&c.Session.TTL, "MINDPATH_SESSION_TTL")

	setString(&c.Log.Mode, "MINDPATH_LOG_MODE")
	setString(&c.Log.Level, "MINDPATH_LOG_LEVEL")
	setString(&c.Log.File, "MINDPATH_LOG_FILE")
	setString(&c.Log.HashSalt, "MINDPATH_LOG_HASH_SALT")
}

// discoverProvider falls back to the vendors' own API key variables when
// no provider was chosen explicitly and the default one has no key.
func (c *Config) discoverProvider() {
	if os.Getenv("MINDPATH_LLM_PROVIDER") != "" || c.LLM.HasKey() {
		return
	}
	found, ok := llm.DiscoverConfig()
	if !ok {
		return
	}
	c.LLM.Provider = found.Provider
	c.LLM.Anthropic.APIKey = firstNonEmpty(c.LLM.Anthropic.APIKey, found.Anthropic.APIKey)
	c.LLM.OpenAI.APIKey = firstNonEmpty(c.LLM.OpenAI.APIKey, found.OpenAI.APIKey)
	c.LLM.Gemini.APIKey = firstNonEmpty(c.LLM.Gemini.APIKey, found.Gemini.APIKey)
	c.LLM.OpenRouter.APIKey = firstNonEmpty(c.LLM.OpenRouter.APIKey, found.OpenRouter.APIKey)
}

// Validate checks values that would otherwise fail late. A provider with
// a missing API key is not an error here; the server degrades to the
// offline question bank instead.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must not be empty")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode)
	}
	switch c.LLM.Provider {
	case llm.ProviderAnthropic, llm.ProviderOpenAI, llm.ProviderGemini, llm.ProviderOpenRouter, llm.ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.LLM.Provider)
	}
	if n := c.LLM.Retry.MaxAttempts; n < 1 || n > llm.MaxRetryAttempts {
		return fmt.Errorf("llm.retry.max_attempts %d must be within 1-%d", n, llm.MaxRetryAttempts)
	}
	if n := c.Diagnostic.QuestionCount; n < diagnostic.MinQuestions || n > diagnostic.MaxQuestions {
		return fmt.Errorf("diagnostic.question_count %d must be within %d-%d", n, diagnostic.MinQuestions, diagnostic.MaxQuestions)
	}
	if c.Adaptation.LookbackWindow < 1 || c.Adaptation.RunLength < 1 {
		return errors.New("adaptation.lookback_window and adaptation.run_length must be positive")
	}
	if c.Adaptation.RunLength > c.Adaptation.LookbackWindow {
		return fmt.Errorf("adaptation.run_length %d exceeds lookback_window %d", c.Adaptation.RunLength, c.Adaptation.LookbackWindow)
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl must not be negative")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
