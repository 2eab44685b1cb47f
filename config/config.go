package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env               string           `mapstructure:"env"`
	LogLevel          string           `mapstructure:"log_level"`
	LogType           string           `mapstructure:"log_type"`
	ServiceName       string           `mapstructure:"service_name"`
	Port              string           `mapstructure:"port"`
	ServerSettings    *ServerConfig    `mapstructure:"server"`
	BackendSettings   *BackendConfig   `mapstructure:"backend"`
	PollingSettings   *PollingConfig   `mapstructure:"polling"`
	TableSettings     *TableConfig     `mapstructure:"table"`
	AuthSettings      *AuthConfig      `mapstructure:"auth"`
	DbSettings        *DatabaseConfig  `mapstructure:"database"`
	CacheSettings     *CacheConfig     `mapstructure:"cache"`
	TelemetrySettings *TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type PollingConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	DiscardStale bool          `mapstructure:"discard_stale"`
}

type TableConfig struct {
	DefaultPageSize int    `mapstructure:"default_page_size"`
	PageSizes       []int  `mapstructure:"page_sizes"`
	DefaultSort     string `mapstructure:"default_sort"`
}

type AuthConfig struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
}

type CacheConfig struct {
	BrokenLinksTTL time.Duration `mapstructure:"broken_links_ttl"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	CollectorUrl string `mapstructure:"collector_url"`
}

// MustLoad reads the configuration or exits the process
func MustLoad() *Config {
	cfg, err := Load(".")
	if err != nil {
		slog.Error("can't initialize config.", slog.String("err", err.Error()))
		os.Exit(1)
	}
	return cfg
}

// Load reads config.yaml from dir, then applies DASHBOARD_* environment overrides on top of
// the defaults. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path.Join(dir))
	v.SetConfigName("config")
	v.SetEnvPrefix("dashboard")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment.")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_type", "text")
	v.SetDefault("service_name", "crawler-dashboard")
	v.SetDefault("port", "8080")

	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.request_timeout", 15*time.Second)

	v.SetDefault("polling.interval", 2*time.Second)
	v.SetDefault("polling.discard_stale", false)

	v.SetDefault("table.default_page_size", 10)
	v.SetDefault("table.page_sizes", []int{5, 10, 20, 50})
	v.SetDefault("table.default_sort", "url")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.session_ttl", 24*time.Hour)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.name", "crawler_dashboard")
	v.SetDefault("database.conn_max_lifetime", 30*time.Second)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("cache.broken_links_ttl", 30*time.Second)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.collector_url", "localhost:4318")
}

func (c *Config) validate() error {
	if c.PollingSettings.Interval <= 0 {
		return fmt.Errorf("polling.interval must be positive")
	}
	if len(c.TableSettings.PageSizes) == 0 {
		return fmt.Errorf("table.page_sizes must not be empty")
	}
	if !c.PageSizeAllowed(c.TableSettings.DefaultPageSize) {
		return fmt.Errorf("table.default_page_size %d is not one of %v",
			c.TableSettings.DefaultPageSize, c.TableSettings.PageSizes)
	}
	switch c.DbSettings.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.DbSettings.Driver)
	}
	return nil
}

// PageSizeAllowed reports whether n is one of the offered page sizes
func (c *Config) PageSizeAllowed(n int) bool {
	for _, s := range c.TableSettings.PageSizes {
		if s == n {
			return true
		}
	}
	return false
}
