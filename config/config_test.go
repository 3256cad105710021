package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sammcj/localllm-mcp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	assert.Equal(t, "http://localhost:1234/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "none", cfg.LLM.APIKey)
	assert.Equal(t, "qwen2.5-7b-instruct", cfg.LLM.Model)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, -1, cfg.LLM.MaxTokens)
}

func TestLoadFromOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"OPENAI_BASE_URL":       "http://127.0.0.1:8000/v1",
		"OPENAI_API_KEY":        "sk-local",
		"LOCAL_MODEL_NAME":      "llama-3.2-3b-instruct",
		"LOCAL_LLM_TEMPERATURE": "0",
		"LOCAL_LLM_MAX_TOKENS":  "512",
		"LOCAL_LLM_TRANSPORT":   "http",
		"LOCAL_LLM_PORT":        "9090",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "sk-local", cfg.LLM.APIKey)
	assert.Equal(t, "llama-3.2-3b-instruct", cfg.LLM.Model)
	assert.Equal(t, 0.0, cfg.LLM.Temperature)
	assert.Equal(t, 512, cfg.LLM.MaxTokens)
	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, "localhost:9090", cfg.Address())
}

func TestLoadFromEmptyValuesUseDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"OPENAI_BASE_URL":       "",
		"OPENAI_API_KEY":        "",
		"LOCAL_MODEL_NAME":      "",
		"LOCAL_LLM_TEMPERATURE": "",
		"LOCAL_LLM_MAX_TOKENS":  "",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().LLM, cfg.LLM)
}

func TestLoadFromInvalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		field   string
	}{
		{"non-numeric temperature", map[string]string{"LOCAL_LLM_TEMPERATURE": "warm"}, "Temperature"},
		{"non-numeric max tokens", map[string]string{"LOCAL_LLM_MAX_TOKENS": "lots"}, "MaxTokens"},
		{"bad base url", map[string]string{"OPENAI_BASE_URL": "not a url"}, "Config.LLM.BaseURL"},
		{"unknown transport", map[string]string{"LOCAL_LLM_TRANSPORT": "grpc"}, "Config.Server.Transport"},
		{"unknown log level", map[string]string{"LOCAL_LLM_LOG_LEVEL": "trace"}, "Config.Logging.Level"},
		{"port out of range", map[string]string{"LOCAL_LLM_PORT": "70000"}, "Config.Server.Port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.environ)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, types.ErrInvalidConfig)

			var cfgErr *types.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOCAL_MODEL_NAME=phi-4-mini\nLOCAL_LLM_MAX_TOKENS=256\n"), 0o644))

	t.Setenv("LOCAL_MODEL_NAME", "already-set")
	t.Setenv("LOCAL_LLM_MAX_TOKENS", "")
	os.Unsetenv("LOCAL_LLM_MAX_TOKENS")

	require.NoError(t, LoadEnvFile(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "already-set", cfg.LLM.Model, "existing variables are not overridden")
	assert.Equal(t, 256, cfg.LLM.MaxTokens)

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
	assert.NoError(t, LoadEnvFile(""))
}

func TestWriteRedactsAPIKey(t *testing.T) {
	cfg := DefaultConfig()

	var buf bytes.Buffer
	require.NoError(t, cfg.Write(&buf))
	assert.Contains(t, buf.String(), "api_key: none")
	assert.Contains(t, buf.String(), "base_url: http://localhost:1234/v1")
	assert.Contains(t, buf.String(), "max_tokens: -1")

	cfg.LLM.APIKey = "sk-secret"
	buf.Reset()
	require.NoError(t, cfg.Write(&buf))
	assert.NotContains(t, buf.String(), "sk-secret")
	assert.Contains(t, buf.String(), "api_key: <redacted>")
	assert.Equal(t, "sk-secret", cfg.LLM.APIKey)
}

func TestLoggingLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, LoggingConfig{Level: "debug"}.ZerologLevel())
	assert.Equal(t, zerolog.WarnLevel, LoggingConfig{Level: "WARN"}.ZerologLevel())
	assert.Equal(t, zerolog.InfoLevel, LoggingConfig{Level: ""}.ZerologLevel())

	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info().Msg("dropped")
	logger.Warn().Msg("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"message":"kept"`)
}
