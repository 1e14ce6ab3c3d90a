package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Rules struct {
		// File points at a YAML rule table overriding the built-in cascade.
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	Classifier struct {
		AIEnabled      bool   `mapstructure:"ai_enabled" yaml:"ai_enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"classifier" yaml:"classifier"`

	Reconcile struct {
		// CreditFromClassification turns on credit auto-assignment for
		// Francesinha rows from the payer classification. The default leaves
		// the credit blank for saved rules or the reviewer to fill.
		CreditFromClassification bool `mapstructure:"credit_from_classification" yaml:"credit_from_classification"`
	} `mapstructure:"reconcile" yaml:"reconcile"`

	DB struct {
		Path string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"db" yaml:"db"`

	Company struct {
		ID int64 `mapstructure:"id" yaml:"id"`
	} `mapstructure:"company" yaml:"company"`
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then config file, then CONCILIA_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.concilia-csv")
	v.AddConfigPath(".concilia-csv")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CONCILIA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken file is not fatal.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The API key is always read from the unprefixed variable.
	if err := v.BindEnv("classifier.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// The accounting import expects semicolon-separated, headered CSV.
	v.SetDefault("csv.delimiter", ";")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("rules.file", "")

	v.SetDefault("classifier.ai_enabled", false)
	v.SetDefault("classifier.model", "gemini-2.0-flash")
	v.SetDefault("classifier.timeout_seconds", 30)

	v.SetDefault("reconcile.credit_from_classification", false)

	v.SetDefault("db.path", "concilia.db")
	v.SetDefault("company.id", 1)
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Classifier.AIEnabled {
		if config.Classifier.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when the AI classifier is enabled")
		}
		if config.Classifier.TimeoutSeconds < 1 || config.Classifier.TimeoutSeconds > 300 {
			return fmt.Errorf("classifier.timeout_seconds must be between 1 and 300, got: %d", config.Classifier.TimeoutSeconds)
		}
	}

	if config.Company.ID < 1 {
		return fmt.Errorf("company.id must be positive, got: %d", config.Company.ID)
	}

	return nil
}
