package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config is the whole server configuration (configs/league.yaml)
type Config struct {
	League  LeagueConfig  `mapstructure:"league"`
	Storage StorageConfig `mapstructure:"storage"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LeagueConfig describes the league being run
type LeagueConfig struct {
	Name            string `mapstructure:"name"`
	Description     string `mapstructure:"description"`
	MinPlayoffTeams int    `mapstructure:"min_playoff_teams"`
}

// StorageConfig selects the durable key-value store
type StorageConfig struct {
	Driver        string `mapstructure:"driver"`
	Path          string `mapstructure:"path"`
	RedisURL      string `mapstructure:"redis_url"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	KeyPrefix     string `mapstructure:"key_prefix"`
}

// RemoteConfig configures the optional remote table sync
type RemoteConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig controls the logrus logger
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the status HTTP server. An empty Addr disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// configPaths are searched in order for league.yaml
var configPaths = []string{
	"configs",
	"../configs",
	"../../configs",
}

// Load reads league.yaml from the given directories (or the default search
// path), then applies LEAGUE_* environment overrides. A missing file is not
// an error; defaults are used instead.
func Load(paths ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	if len(paths) == 0 {
		paths = configPaths
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("league")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("LEAGUE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read league config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse league config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("league.name", "Default League")
	v.SetDefault("league.description", "Recreational league playoffs")
	v.SetDefault("league.min_playoff_teams", 3)

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.path", "league.db")
	v.SetDefault("storage.redis_url", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.key_prefix", "league:")

	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.base_url", "")
	v.SetDefault("remote.api_key", "")
	v.SetDefault("remote.timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.addr", "")
}

// overrideFromEnv applies the conventional unprefixed variables used by
// hosting platforms for secrets
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("REDIS_URL"); v != "" && cfg.Storage.RedisURL == "" {
		cfg.Storage.RedisURL = v
	}
	if v := os.Getenv("SUPABASE_URL"); v != "" && cfg.Remote.BaseURL == "" {
		cfg.Remote.BaseURL = v
	}
	if v := os.Getenv("SUPABASE_KEY"); v != "" && cfg.Remote.APIKey == "" {
		cfg.Remote.APIKey = v
	}
}

// Validate checks values the rest of the server relies on
func (c *Config) Validate() error {
	if c.League.MinPlayoffTeams < 2 {
		return fmt.Errorf("league.min_playoff_teams must be at least 2, got %d", c.League.MinPlayoffTeams)
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the sqlite driver")
		}
	case DriverRedis, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Remote.Enabled && c.Remote.BaseURL == "" {
		return fmt.Errorf("remote.base_url is required when remote sync is enabled")
	}
	return nil
}
