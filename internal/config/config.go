// Package config provides configuration loading and management for doc-agent.
//
// Configuration is loaded using Viper, supporting YAML config files and
// environment variable overrides. The defaults work out of the box; a config
// file is only needed to point at a different LLM backend or tune output.
//
// Key types:
//   - [Config] is the root configuration container
//   - [Loader] handles Viper-based configuration loading
//
// Configuration priority (highest to lowest):
//  1. Environment variables (DOC_AGENT_ prefix)
//  2. Config file specified by --config or DOC_AGENT_CONFIG_PATH
//  3. User config directory: <user-config-dir>/doc-agent/config.yaml
//  4. ./doc-agent.yaml
//  5. [DefaultConfig] defaults
package config

// Config represents the root configuration structure.
type Config struct {
	// LLM contains settings for the chat completion backend.
	LLM LLMConfig `mapstructure:"llm"`

	// Output contains terminal output formatting configuration.
	Output OutputConfig `mapstructure:"output"`

	// Generate contains settings for the generate command.
	Generate GenerateConfig `mapstructure:"generate"`

	// History contains run history persistence settings.
	History HistoryConfig `mapstructure:"history"`
}

// LLMConfig contains settings for the chat completion backend.
//
// Any OpenAI-compatible API works; change BaseURL and DefaultModel to point
// at a different provider.
type LLMConfig struct {
	// BaseURL is the provider base URL.
	// Default: "https://api.openai.com"
	BaseURL string `mapstructure:"base_url"`

	// APIKey authenticates requests. Usually supplied via the
	// DOC_AGENT_LLM_API_KEY environment variable; OPENAI_API_KEY is used
	// as a fallback when neither the config nor the env sets a key.
	APIKey string `mapstructure:"api_key"`

	// DefaultModel is used when a workflow step does not pick a model.
	// Default: "gpt-4o"
	DefaultModel string `mapstructure:"default_model"`

	// TimeoutSeconds is the HTTP timeout for completion requests.
	// Default: 60
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// OutputConfig contains terminal output formatting configuration.
type OutputConfig struct {
	// TruncateLines is the maximum number of lines displayed per value.
	// Default: 20
	TruncateLines int `mapstructure:"truncate_lines"`

	// TruncateLength is the maximum length of a rendered value line.
	// Default: 80
	TruncateLength int `mapstructure:"truncate_length"`

	// Color enables styled output. Default: true.
	Color bool `mapstructure:"color"`
}

// GenerateConfig contains settings for the generate command.
type GenerateConfig struct {
	// DefaultPath is where generate writes the example workflow when no
	// --output flag is given. Default: "workflow.yml"
	DefaultPath string `mapstructure:"default_path"`
}

// HistoryConfig contains run history persistence settings.
type HistoryConfig struct {
	// Enabled controls whether run results are persisted. Default: true.
	Enabled bool `mapstructure:"enabled"`

	// Dir is the history directory. Default: ".doc-agent/runs"
	Dir string `mapstructure:"dir"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
//
// The defaults target the public OpenAI API and standard terminal output;
// they work without any configuration file as long as an API key is present
// in the environment.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com",
			DefaultModel:   "gpt-4o",
			TimeoutSeconds: 60,
		},
		Output: OutputConfig{
			TruncateLines:  20,
			TruncateLength: 80,
			Color:          true,
		},
		Generate: GenerateConfig{
			DefaultPath: "workflow.yml",
		},
		History: HistoryConfig{
			Enabled: true,
			Dir:     ".doc-agent/runs",
		},
	}
}
