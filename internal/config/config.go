package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	DBURL          string `mapstructure:"DB_URL"`
	GithubToken    string `mapstructure:"GITHUB_TOKEN"`
	TextGenURL     string `mapstructure:"TEXTGEN_URL"`
	TextGenModel   string `mapstructure:"TEXTGEN_MODEL"`
	TextGenMaxSize int    `mapstructure:"TEXTGEN_MAX_TOKENS"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	// Set default values
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("TEXTGEN_MODEL", "gemini-2.5-flash")
	viper.SetDefault("TEXTGEN_MAX_TOKENS", 2048)

	// Load from .env file if it exists
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{
		"LOG_LEVEL", "HTTP_ADDR", "DB_URL", "GITHUB_TOKEN",
		"TEXTGEN_URL", "TEXTGEN_MODEL", "TEXTGEN_MAX_TOKENS",
	} {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate required fields. GITHUB_TOKEN stays optional: without it the
	// intake flow falls back to synthetic repository metadata.
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.TextGenURL == "" {
		return nil, errors.New("TEXTGEN_URL is a required configuration field")
	}
	if cfg.TextGenMaxSize <= 0 {
		return nil, errors.New("TEXTGEN_MAX_TOKENS must be a positive integer")
	}

	return &cfg, nil
}
