package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, as in MCDATA_LOG_LEVEL.
const EnvPrefix = "MCDATA"

// HTTPConfig configures the query server.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// RedisConfig enables publishing diagnostics to Redis when Addr is set.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config holds all runtime configuration.
// Values are populated from .mcdata.yaml, MCDATA_* env vars, and CLI flags.
type Config struct {
	// VanillaDir holds generator output (reports/ and data/). Empty means no
	// global data.
	VanillaDir string        `mapstructure:"vanilla_dir"`
	Version    string        `mapstructure:"version"`
	Roots      []string      `mapstructure:"roots"`
	Format     string        `mapstructure:"format"`
	LogLevel   string        `mapstructure:"log_level"`
	LogFormat  string        `mapstructure:"log_format"`
	HTTP       HTTPConfig    `mapstructure:"http"`
	Redis      RedisConfig   `mapstructure:"redis"`
	Metrics    MetricsConfig `mapstructure:"metrics"`
}

// Init points v at the config file and the environment. An explicit file must
// exist; otherwise .mcdata.yaml is looked up in the working directory and in
// the home directory, and its absence is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".mcdata")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// SetDefaults registers the built-in values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("vanilla_dir", "")
	v.SetDefault("version", "")
	v.SetDefault("roots", []string{})
	v.SetDefault("format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "mcdata:")
	v.SetDefault("metrics.enabled", true)
}

// Load reads configuration from v, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	switch cfg.Format {
	case "text", "json", "yaml":
	default:
		return Config{}, fmt.Errorf("unknown output format %q", cfg.Format)
	}
	return cfg, nil
}
