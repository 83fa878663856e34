// Package config loads process configuration from .env, an optional
// billboard.yaml and BILLBOARD_* environment variables.
package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	Environment string
	Port        int
	DBPath      string

	Log     LogConfig
	Pricing PricingConfig
	CORS    CORSConfig

	// Currency is appended to amounts in summary and clause text.
	Currency string
}

type LogConfig struct {
	Level  string
	Format string
}

type PricingConfig struct {
	// RefreshSchedule is a cron expression; empty disables scheduled refresh.
	RefreshSchedule string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Defaults mirrors what Load uses when nothing is configured.
func Defaults() Config {
	return Config{
		AppName:     "billboard-engine",
		Environment: "development",
		Port:        8080,
		DBPath:      "billboard.db",
		Log:         LogConfig{Level: "info", Format: "json"},
		Pricing:     PricingConfig{RefreshSchedule: "@every 1h"},
		CORS:        CORSConfig{AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"}},
		Currency:    "د.ل",
	}
}

// Load loads configuration from environment variables, .env and
// billboard.yaml, in increasing order of precedence for env vars.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	def := Defaults()
	v.SetDefault("app_name", def.AppName)
	v.SetDefault("environment", def.Environment)
	v.SetDefault("port", def.Port)
	v.SetDefault("db", def.DBPath)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("pricing.refresh_schedule", def.Pricing.RefreshSchedule)
	v.SetDefault("cors.allowed_origins", def.CORS.AllowedOrigins)
	v.SetDefault("currency", def.Currency)

	v.SetConfigName("billboard")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/billboard")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BILLBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	cfg := Config{
		AppName:     v.GetString("app_name"),
		Environment: v.GetString("environment"),
		Port:        v.GetInt("port"),
		DBPath:      v.GetString("db"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Pricing: PricingConfig{
			RefreshSchedule: strings.TrimSpace(v.GetString("pricing.refresh_schedule")),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		Currency: v.GetString("currency"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects an out-of-range port or an unparseable refresh schedule.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("config: port must be in 1..65535")
	}
	if c.Pricing.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Pricing.RefreshSchedule); err != nil {
			return errors.New("config: invalid pricing.refresh_schedule: " + err.Error())
		}
	}
	return nil
}
