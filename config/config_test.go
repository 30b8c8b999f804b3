package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv pins every config-relevant variable to a known empty value so the
// test is isolated from the developer's shell.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"USE_OPENAI", "OPENAI_API_KEY",
		"LOCAL_LLM_BASE_URL", "LOCAL_LLM_API_KEY", "LOCAL_LLM_MODEL",
		"INSECURE_TLS",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contentagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.UseOpenAI)
	assert.Equal(t, "local", cfg.ProviderName())
	assert.Equal(t, "http://localhost:1234/v1", cfg.Endpoint())
	assert.Equal(t, "qwen3:4b-2507", cfg.ModelName())
	assert.Equal(t, "local", cfg.APIKey)
	assert.False(t, cfg.InsecureTLS)
	assert.Equal(t, "uv", cfg.MCP.Command)
	assert.Equal(t, []string{"run", "mcp-server/content_mcp.py"}, cfg.MCP.Args)
}

func TestLoad_MissingFileIsOptional(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:1234/v1", cfg.BaseURL)
}

func TestLoad_FromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
base_url: http://192.168.1.10:8080/v1
model: llama3:8b
temperature: 0.7
max_tokens: 4096
insecure_tls: true
mcp:
  command: python
  args: ["content_mcp.py"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.1.10:8080/v1", cfg.BaseURL)
	assert.Equal(t, "llama3:8b", cfg.ModelName())
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.True(t, cfg.InsecureTLS)
	assert.Equal(t, "python", cfg.MCP.Command)
	assert.Equal(t, []string{"content_mcp.py"}, cfg.MCP.Args)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
base_url: http://from-file:1234/v1
model: file-model
`)
	t.Setenv("LOCAL_LLM_BASE_URL", "http://from-env:5678/v1")
	t.Setenv("LOCAL_LLM_MODEL", "env-model")
	t.Setenv("LOCAL_LLM_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:5678/v1", cfg.BaseURL)
	assert.Equal(t, "env-model", cfg.ModelName())
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoad_OpenAIMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("USE_OPENAI", "true")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.UseOpenAI)
	assert.Equal(t, "openai", cfg.ProviderName())
	assert.Equal(t, "https://api.openai.com/v1", cfg.Endpoint())
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName())
	assert.Equal(t, "sk-test", cfg.APIKey)
}

func TestLoad_OpenAIModeRequiresKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("USE_OPENAI", "true")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is required when USE_OPENAI=true")
}

func TestLoad_OpenAIModeIgnoresLocalEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("USE_OPENAI", "1")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LOCAL_LLM_MODEL", "should-be-ignored")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.ModelName())
}

func TestLoad_EmptyEnvDoesNotOverrideFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "insecure_tls: true")
	t.Setenv("INSECURE_TLS", "")
	t.Setenv("USE_OPENAI", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Present-but-empty variables leave the file values alone.
	assert.True(t, cfg.InsecureTLS)
	assert.False(t, cfg.UseOpenAI)
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "use_openai: [not, a, bool]")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{" true ", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"yes", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseBool(tt.in))
		})
	}
}

func TestInsecureTLSEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("INSECURE_TLS", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.InsecureTLS)
}
