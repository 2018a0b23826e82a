package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cmdbot/internal/core/domain"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "CMDBOT"

type Config struct {
	Token          string
	Prefix         string
	LogLevel       zerolog.Level
	LogFormat      string
	HandlerTimeout time.Duration
}

// Load reads config.toml from the given paths (the working directory if none), then applies
// environment overrides. A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, falling back to system environment variables")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		viper.AddConfigPath(p)
	}

	viper.SetDefault("bot.prefix", domain.DefaultPrefix)
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("bot.log_format", "json")
	viper.SetDefault("handler.timeout", "0s")

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("discord.token", envPrefix+"_DISCORD_TOKEN", "DISCORD_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind token env: %w", err)
	}

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
		log.Info().Msg("no config file found, using defaults and environment")
	}

	timeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout for handler in config: %w", err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid timeout for handler in config: %s is negative", timeout)
	}

	level, err := zerolog.ParseLevel(viper.GetString("bot.log_level"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	cfg := &Config{
		Token:          viper.GetString("discord.token"),
		Prefix:         viper.GetString("bot.prefix"),
		LogLevel:       level,
		LogFormat:      viper.GetString("bot.log_format"),
		HandlerTimeout: timeout,
	}

	if cfg.Token == "" {
		return nil, errors.New("discord.token is not set")
	}
	if cfg.Prefix == "" {
		return nil, domain.ErrEmptyPrefix
	}

	return cfg, nil
}

// SetupLogging applies the configured level and output format to the global logger.
func (c *Config) SetupLogging() {
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	}
}
