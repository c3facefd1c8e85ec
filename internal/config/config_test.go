package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, ":8100", cfg.Listen)
	assert.Equal(t, ":memory:", cfg.Database)
	assert.Equal(t, "llama3.1:8b", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout.Duration)
	assert.Equal(t, "/docsx/chat/prompt", cfg.Remote.PromptPath)
	assert.Equal(t, "http://localhost:8100", cfg.RemoteURL())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsx.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen = "127.0.0.1:9000"
database = "docsx.db"

[llm]
model = "mistral"
timeout = "5s"

[remote]
timeout = "2s"
`), 0o644))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DOCSX_LLM_MODEL", "qwen")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Listen)
	assert.Equal(t, "docsx.db", cfg.Database)
	assert.Equal(t, "qwen", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.Token)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout.Duration)
	assert.Equal(t, 2*time.Second, cfg.Remote.Timeout.Duration)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.RemoteURL())
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsx.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nbase_url = \"not a url\"\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	t.Setenv("DOCSX_MAX_PROMPT_TOKENS", "many")
	_, err = Load("")
	require.Error(t, err)
}

func TestRemoteURL_Override(t *testing.T) {
	cfg := Default()
	cfg.Remote.BaseURL = "https://generator.example.com"
	assert.Equal(t, "https://generator.example.com", cfg.RemoteURL())

	cfg = Default()
	cfg.Listen = "0.0.0.0:8200"
	assert.Equal(t, "http://localhost:8200", cfg.RemoteURL())
}
