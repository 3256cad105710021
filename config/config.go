// config/config.go
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sammcj/localllm-mcp/types"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL     = "http://localhost:1234/v1"
	DefaultAPIKey      = "none"
	DefaultModel       = "qwen2.5-7b-instruct"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = -1

	// DefaultEnvFile is read at startup when present
	DefaultEnvFile = ".env"

	redacted = "<redacted>"
)

// LLMConfig holds the inference server settings
type LLMConfig struct {
	BaseURL     string  `env:"OPENAI_BASE_URL" envDefault:"http://localhost:1234/v1" yaml:"base_url" validate:"required,url"`
	APIKey      string  `env:"OPENAI_API_KEY" envDefault:"none" yaml:"api_key"`
	Model       string  `env:"LOCAL_MODEL_NAME" envDefault:"qwen2.5-7b-instruct" yaml:"model" validate:"required"`
	Temperature float64 `env:"LOCAL_LLM_TEMPERATURE" envDefault:"0.7" yaml:"temperature"`
	MaxTokens   int     `env:"LOCAL_LLM_MAX_TOKENS" envDefault:"-1" yaml:"max_tokens"`
}

// LoggingConfig controls log output on stderr
type LoggingConfig struct {
	Level  string `env:"LOCAL_LLM_LOG_LEVEL" envDefault:"info" yaml:"level" validate:"oneof=debug info warn error"`
	Format string `env:"LOCAL_LLM_LOG_FORMAT" envDefault:"json" yaml:"format" validate:"oneof=json text"`
}

// ServerConfig selects the MCP transport
type ServerConfig struct {
	Transport string `env:"LOCAL_LLM_TRANSPORT" envDefault:"stdio" yaml:"transport" validate:"oneof=stdio http"`
	Host      string `env:"LOCAL_LLM_HOST" envDefault:"localhost" yaml:"host" validate:"required_if=Transport http"`
	Port      int    `env:"LOCAL_LLM_PORT" envDefault:"8080" yaml:"port" validate:"min=1,max=65535"`
}

// Config holds the complete configuration, resolved once at startup
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
	Server  ServerConfig  `yaml:"server"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the configuration used when no variables are set
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.LLM.BaseURL = DefaultBaseURL
	cfg.LLM.APIKey = DefaultAPIKey
	cfg.LLM.Model = DefaultModel
	cfg.LLM.Temperature = DefaultTemperature
	cfg.LLM.MaxTokens = DefaultMaxTokens

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"

	cfg.Server.Transport = "stdio"
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8080

	return cfg
}

// LoadEnvFile loads variables from a dotenv file without overriding ones already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &types.ConfigError{Field: path, Message: "failed to load env file", Err: err}
	}
	return nil
}

// Load resolves the configuration from the process environment
func Load() (*Config, error) {
	return LoadFrom(env.ToMap(os.Environ()))
}

// LoadFrom resolves the configuration from the given environment.
// Empty values fall back to the defaults; unparsable numbers are an error.
func LoadFrom(environ map[string]string) (*Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		var parseErr env.ParseError
		if errors.As(err, &parseErr) {
			return nil, &types.ConfigError{Field: parseErr.Name, Message: "failed to parse", Err: parseErr.Err}
		}
		return nil, &types.ConfigError{Message: "failed to parse environment", Err: err}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Address returns the listen address for the HTTP transport
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Write renders the configuration as YAML with the API key redacted
func (c *Config) Write(w io.Writer) error {
	out := *c
	if out.LLM.APIKey != "" && out.LLM.APIKey != DefaultAPIKey {
		out.LLM.APIKey = redacted
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}

// validate checks that required fields are present and valid
func (c *Config) validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &types.ConfigError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("value %v fails %q", fe.Value(), fe.ActualTag()),
		}
	}
	return &types.ConfigError{Message: "invalid configuration", Err: err}
}
