package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mindpath/internal/llm"
)

// clearEnv blanks every variable Load looks at so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		EnvConfigPath, "MINDPATH_LLM_PROVIDER", "MINDPATH_ADDR", "MINDPATH_GIN_MODE", "MINDPATH_CORS_ORIGINS",
		"MINDPATH_DB", "MINDPATH_DB_DISABLED", "MINDPATH_SESSION_TTL", "MINDPATH_LOG_MODE", "MINDPATH_LOG_LEVEL",
		"MINDPATH_LOG_FILE", "MINDPATH_LOG_HASH_SALT", "MINDPATH_LLM_TIMEOUT", "MINDPATH_LLM_RPS",
		"MINDPATH_ANTHROPIC_API_KEY", "MINDPATH_OPENAI_API_KEY", "MINDPATH_GEMINI_API_KEY", "MINDPATH_OPENROUTER_API_KEY",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	want := Default()
	want.Content.Timeout = want.LLM.Timeout
	assert.Equal(t, want, cfg)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "mindpath.yaml", `
server:
  addr: ":9090"
  allowed_origins: ["https://learn.example.com"]
llm:
  provider: mock
  timeout: 10s
session:
  ttl: 30m
adaptation:
  lookback_window: 4
  run_length: 3
diagnostic:
  question_count: 6
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"https://learn.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, llm.ProviderMock, cfg.LLM.Provider)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 10*time.Second, cfg.Content.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 4, cfg.Adaptation.LookbackWindow)
	assert.Equal(t, 6, cfg.Diagnostic.QuestionCount)

	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Log, cfg.Log)
	assert.Equal(t, Default().Adaptation.SlowMargin, cfg.Adaptation.SlowMargin)
}

func TestLoadFromEnvPath(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "mindpath.yaml", "server:\n  addr: \":7070\"\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	_, err = Load(writeFile(t, "bad.yaml", "server: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "invalid.yaml", "diagnostic:\n  question_count: 9\n"))
	assert.ErrorContains(t, err, "question_count")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "mindpath.yaml", "server:\n  addr: \":9090\"\n")
	t.Setenv("MINDPATH_ADDR", ":6060")
	t.Setenv("MINDPATH_SESSION_TTL", "45m")
	t.Setenv("MINDPATH_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MINDPATH_LLM_PROVIDER", "mock")
	t.Setenv("MINDPATH_DB_DISABLED", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Addr)
	assert.Equal(t, 45*time.Minute, cfg.Session.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Store.Disabled)
}

func TestDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to "".
	t.Setenv("MINDPATH_LOG_HASH_SALT", "")
	os.Unsetenv("MINDPATH_LOG_HASH_SALT")
	require.NoError(t, os.WriteFile(".env", []byte("MINDPATH_LOG_HASH_SALT=pepper\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pepper", cfg.Log.HashSalt)
}

func TestDiscoverProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
	assert.True(t, cfg.LLM.HasKey())
}

func TestExplicitProviderIsNotRediscovered(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("MINDPATH_LLM_PROVIDER", "anthropic")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.False(t, cfg.LLM.HasKey())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }},
		{"bad gin mode", func(c *Config) { c.Server.Mode = "verbose" }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }},
		{"retrying more than once", func(c *Config) { c.LLM.Retry.MaxAttempts = 5 }},
		{"no attempts", func(c *Config) { c.LLM.Retry.MaxAttempts = 0 }},
		{"too few questions", func(c *Config) { c.Diagnostic.QuestionCount = 3 }},
		{"run longer than window", func(c *Config) { c.Adaptation.RunLength = 5 }},
		{"negative ttl", func(c *Config) { c.Session.TTL = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
