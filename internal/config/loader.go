package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides. Keys are
// upper-cased with dots replaced by underscores, e.g. llm.base_url becomes
// DOC_AGENT_LLM_BASE_URL.
const EnvPrefix = "DOC_AGENT"

// ConfigPathEnv names an explicit config file, overriding discovery.
const ConfigPathEnv = "DOC_AGENT_CONFIG_PATH"

// Loader loads configuration with Viper.
//
// The zero value is usable; ExplicitPath (typically from a --config flag)
// takes priority over discovery.
type Loader struct {
	// ExplicitPath points at a config file to load. When empty, the
	// loader falls back to DOC_AGENT_CONFIG_PATH and then discovery.
	ExplicitPath string
}

// Load reads configuration from the environment, an optional config file,
// and the defaults, in that priority order.
//
// A missing config file is not an error; a file that exists but fails to
// parse is. The OPENAI_API_KEY environment variable is honored as a
// fallback API key when nothing else supplies one.
func (l Loader) Load() (*Config, error) {
	v := viper.New()

	applyDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := l.ExplicitPath
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if discovered := discoverConfigFile(); discovered != "" {
		v.SetConfigFile(discovered)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", discovered, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}

// applyDefaults registers the [DefaultConfig] values as Viper defaults so
// partial config files inherit the rest.
func applyDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("llm.base_url", def.LLM.BaseURL)
	v.SetDefault("llm.api_key", def.LLM.APIKey)
	v.SetDefault("llm.default_model", def.LLM.DefaultModel)
	v.SetDefault("llm.timeout_seconds", def.LLM.TimeoutSeconds)
	v.SetDefault("output.truncate_lines", def.Output.TruncateLines)
	v.SetDefault("output.truncate_length", def.Output.TruncateLength)
	v.SetDefault("output.color", def.Output.Color)
	v.SetDefault("generate.default_path", def.Generate.DefaultPath)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.dir", def.History.Dir)
}

// discoverConfigFile returns the first config file that exists among the
// standard locations, or empty when none is present.
func discoverConfigFile() string {
	var candidates []string
	if userDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(userDir, "doc-agent", "config.yaml"))
	}
	candidates = append(candidates, "doc-agent.yaml")

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
