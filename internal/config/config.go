package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-level configuration surface named in spec §6.
type Config struct {
	Mode            string        `mapstructure:"mode"`
	APIPort         int           `mapstructure:"api_port"`
	SignalPort      int           `mapstructure:"signal_port"`
	DatabaseURL     string        `mapstructure:"database_url"`
	SigningSecret   string        `mapstructure:"signing_secret"`
	DefaultGrantTTL string        `mapstructure:"default_grant_ttl"`
	ReadLimit       int64         `mapstructure:"read_limit"`
	HeartbeatPeriod time.Duration `mapstructure:"heartbeat_period"`
	ShutdownGrace   time.Duration `mapstructure:"shutdown_grace"`
}

// ErrSigningSecretRequired is returned by Load when running in release
// mode without a signing secret configured, per spec §6.
var ErrSigningSecretRequired = errors.New("signing secret is required in production")

// Load reads config/config.<CONFIG_ENV>.yaml (default "dev"), layering
// environment variable overrides on top, matching the teacher's
// viper-based config loader.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("SIGNALMESH")
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("api_port", 3000)
	v.SetDefault("signal_port", 3001)
	v.SetDefault("database_url", "")
	v.SetDefault("signing_secret", "")
	v.SetDefault("default_grant_ttl", "1h")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("heartbeat_period", "30s")
	v.SetDefault("shutdown_grace", "10s")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("config file not found (%s), using defaults and environment\n", fileName)
	} else {
		fmt.Printf("loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Mode == "release" && cfg.SigningSecret == "" {
		return nil, ErrSigningSecretRequired
	}

	fmt.Printf("mode=%s api_port=%d signal_port=%d\n", cfg.Mode, cfg.APIPort, cfg.SignalPort)
	return &cfg, nil
}
