package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds process-level settings for the CLI and HTTP server.
type AppConfig struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	RulesFile       string
	DefaultYear     string
	ShutdownTimeout time.Duration
}

// EnvPrefix namespaces environment overrides, e.g. BDTAX_HTTP_ADDR.
const EnvPrefix = "BDTAX"

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("rules_file", "")
	v.SetDefault("default_year", "")
	v.SetDefault("shutdown_timeout", 10*time.Second)
}

// LoadAppConfig reads settings from defaults, an optional config file
// (YAML, JSON, TOML or .env) and BDTAX_* environment variables, in
// increasing order of precedence.
func LoadAppConfig(configFile string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &AppConfig{
		HTTPAddr:        v.GetString("http_addr"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		RulesFile:       v.GetString("rules_file"),
		DefaultYear:     v.GetString("default_year"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *AppConfig) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be 'console' or 'json', got %q", c.LogFormat)
	}
	if c.HTTPAddr == "" {
		return fmt.Errorf("http address is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}
