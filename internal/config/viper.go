package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"data" yaml:"data"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	Classifier struct {
		ModelFile string `mapstructure:"model_file" yaml:"model_file"`
	} `mapstructure:"classifier" yaml:"classifier"`

	Budget struct {
		DatabaseFile string `mapstructure:"database_file" yaml:"database_file"`
	} `mapstructure:"budget" yaml:"budget"`

	Categorization struct {
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		MinTrainingRows     int     `mapstructure:"min_training_rows" yaml:"min_training_rows"`
	} `mapstructure:"categorization" yaml:"categorization"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then FINCAT_* environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.fincat")
	v.AddConfigPath(".fincat")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINCAT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Keep going with defaults and env vars
			Logger.Warnf("Error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("data.directory", "data")
	v.SetDefault("categories.file", "categories.yaml")
	v.SetDefault("classifier.model_file", "classifier.gob")
	v.SetDefault("budget.database_file", "budgets.db")
	v.SetDefault("categorization.confidence_threshold", 0.7)
	v.SetDefault("categorization.min_training_rows", 10)
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Categorization.ConfidenceThreshold < 0 || c.Categorization.ConfidenceThreshold > 1 {
		return fmt.Errorf("categorization.confidence_threshold must be in [0,1], got %v",
			c.Categorization.ConfidenceThreshold)
	}
	if c.Categorization.MinTrainingRows < 0 {
		return fmt.Errorf("categorization.min_training_rows must not be negative, got %d",
			c.Categorization.MinTrainingRows)
	}
	return nil
}

// CategoriesPath returns the resolved path of the categories YAML file.
func (c *Config) CategoriesPath() string {
	return c.resolve(c.Categories.File)
}

// ModelPath returns the resolved path of the classifier artifact.
func (c *Config) ModelPath() string {
	return c.resolve(c.Classifier.ModelFile)
}

// BudgetDBPath returns the resolved path of the budget database.
func (c *Config) BudgetDBPath() string {
	return c.resolve(c.Budget.DatabaseFile)
}

func (c *Config) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.Data.Directory, file)
}
