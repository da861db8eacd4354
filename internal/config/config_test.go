package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NAVIGATOR_ADDR", "NAVIGATOR_ALLOWED_ORIGINS", "NAVIGATOR_DB", "NAVIGATOR_MAX_LIST_LIMIT",
		"NAVIGATOR_LLM_PROVIDER", "OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_MODEL",
		"GEMINI_API_KEY", "GEMINI_MODEL", "NAVIGATOR_SHARE_SECRET", "NAVIGATOR_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	// LookupEnv distinguishes unset from empty for the index path.
	t.Setenv("NAVIGATOR_INDEX_PATH", "")
	require.NoError(t, os.Unsetenv("NAVIGATOR_INDEX_PATH"))
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "navigator.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "survey_responses.db", cfg.Store.Path)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "microsoft/phi-3-mini-128k-instruct:free", cfg.LLM.Model)
	assert.Equal(t, 800, cfg.LLM.MaxTokens)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, 100, cfg.Store.DefaultLimit)
	assert.Equal(t, 500, cfg.Store.MaxLimit)
	assert.ElementsMatch(t, []string{
		"http://localhost:5173", "http://127.0.0.1:5173", "https://dodai-questionnaire.vercel.app",
	}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.LLM.RemoteConfigured())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "navigator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
store:
  path: /tmp/x.db
  max_limit: 0
llm:
  model: from-file
  timeout: 30s
share:
  secret: s3cret
  ttl: 48h
`), 0o600))
	t.Setenv("OPENROUTER_MODEL", "from-env")
	t.Setenv("OPENROUTER_API_KEY", "key")
	t.Setenv("NAVIGATOR_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
	assert.Equal(t, 0, cfg.Store.MaxLimit)
	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 48*time.Hour, cfg.Share.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.LLM.RemoteConfigured())
}

func TestLoadIndexPathCanBeDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAVIGATOR_INDEX_PATH", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Search.IndexPath)
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAVIGATOR_LLM_PROVIDER", "anthropic")
	_, err := Load("")
	require.Error(t, err)

	clearEnv(t)
	t.Setenv("NAVIGATOR_MAX_LIST_LIMIT", "many")
	_, err = Load("")
	require.Error(t, err)

	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store: [oops"), 0o600))
	_, err = Load(path)
	require.Error(t, err)
}

func TestGeminiNeedsItsOwnKey(t *testing.T) {
	c := Default().LLM
	c.Provider = ProviderGemini
	c.APIKey = "openrouter-key"
	assert.False(t, c.RemoteConfigured())
	c.GeminiAPIKey = "g"
	assert.True(t, c.RemoteConfigured())
}
