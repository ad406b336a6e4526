package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "PUSULA"
	defaultEnvFile = ".env"
)

// config is the server configuration. Values come from, in rising order
// of precedence: defaults, the config file, then environment variables.
// A .env file only fills in variables the environment does not set.
type config struct {
	Addr           string    `mapstructure:"addr"`
	Model          string    `mapstructure:"model"`
	GeminiAPIKey   string    `mapstructure:"gemini_api_key"`
	AllowedOrigins []string  `mapstructure:"allowed_origins"`
	MaxBodyBytes   int64     `mapstructure:"max_body_bytes"`
	Log            logConfig `mapstructure:"log"`
}

type logConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// loadConfig reads the configuration. configFile may be empty. A missing
// default .env file is not an error; a missing explicit one is.
func loadConfig(configFile, envFile string) (config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) || envFile != defaultEnvFile {
				return config{}, fmt.Errorf("load env file: %w", err)
			}
		}
	}

	v := viper.New()
	v.SetDefault("addr", ":5000")
	v.SetDefault("model", "")
	v.SetDefault("gemini_api_key", "")
	v.SetDefault("allowed_origins", []string{"*"})
	v.SetDefault("max_body_bytes", 10<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The unprefixed name is what the Gemini tooling documents.
	if err := v.BindEnv("gemini_api_key", envPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return config{}, fmt.Errorf("bind env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.GeminiAPIKey == "" {
		return config{}, fmt.Errorf("gemini_api_key not set: use GEMINI_API_KEY, %s_GEMINI_API_KEY or the config file", envPrefix)
	}
	if cfg.MaxBodyBytes <= 0 {
		return config{}, fmt.Errorf("max_body_bytes must be positive, got %d", cfg.MaxBodyBytes)
	}
	return cfg, nil
}
