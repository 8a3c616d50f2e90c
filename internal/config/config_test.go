package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://api.openai.com", cfg.LLM.BaseURL)
	assert.Equal(t, "gpt-4o", cfg.LLM.DefaultModel)
	assert.Equal(t, 60, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, 20, cfg.Output.TruncateLines)
	assert.Equal(t, 80, cfg.Output.TruncateLength)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, "workflow.yml", cfg.Generate.DefaultPath)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, ".doc-agent/runs", cfg.History.Dir)
}

func TestLoader_Load(t *testing.T) {
	// Keep ambient configuration out of the tests.
	t.Setenv(ConfigPathEnv, "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Run("defaults when nothing is configured", func(t *testing.T) {
		chdir(t, t.TempDir())

		cfg, err := Loader{}.Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("partial file inherits defaults", func(t *testing.T) {
		path := writeConfigFile(t, "llm:\n  default_model: gpt-4o-mini\n")

		cfg, err := Loader{ExplicitPath: path}.Load()
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.DefaultModel)
		assert.Equal(t, "https://api.openai.com", cfg.LLM.BaseURL)
		assert.Equal(t, 20, cfg.Output.TruncateLines)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfigFile(t, "llm:\n  base_url: https://file.example\n")
		t.Setenv("DOC_AGENT_LLM_BASE_URL", "https://env.example")

		cfg, err := Loader{ExplicitPath: path}.Load()
		require.NoError(t, err)
		assert.Equal(t, "https://env.example", cfg.LLM.BaseURL)
	})

	t.Run("env path used when no explicit path", func(t *testing.T) {
		path := writeConfigFile(t, "output:\n  color: false\n")
		t.Setenv(ConfigPathEnv, path)

		cfg, err := Loader{}.Load()
		require.NoError(t, err)
		assert.False(t, cfg.Output.Color)
	})

	t.Run("discovers doc-agent.yaml in the working directory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "doc-agent.yaml"),
			[]byte("generate:\n  default_path: pipeline.yml\n"), 0o644))
		chdir(t, dir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

		cfg, err := Loader{}.Load()
		require.NoError(t, err)
		assert.Equal(t, "pipeline.yml", cfg.Generate.DefaultPath)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Loader{ExplicitPath: filepath.Join(t.TempDir(), "nope.yaml")}.Load()
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := writeConfigFile(t, "llm: [not: a map\n")

		_, err := Loader{ExplicitPath: path}.Load()
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("OPENAI_API_KEY fallback", func(t *testing.T) {
		chdir(t, t.TempDir())
		t.Setenv("OPENAI_API_KEY", "sk-fallback")

		cfg, err := Loader{}.Load()
		require.NoError(t, err)
		assert.Equal(t, "sk-fallback", cfg.LLM.APIKey)
	})

	t.Run("configured key beats the fallback", func(t *testing.T) {
		path := writeConfigFile(t, "llm:\n  api_key: sk-file\n")
		t.Setenv("OPENAI_API_KEY", "sk-fallback")

		cfg, err := Loader{ExplicitPath: path}.Load()
		require.NoError(t, err)
		assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	})
}
