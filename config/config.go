package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // routine.timezone must resolve on minimal images

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"routine-maker/backend/internal/routine"
)

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Routine   RoutineConfig   `mapstructure:"routine"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	BaseURL   string     `mapstructure:"base_url"`
	BodyLimit int64      `mapstructure:"body_limit"` // bytes
	CORS      CORSConfig `mapstructure:"cors"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL settings. The service runs without a database
// when Enabled is false; snapshots and saved routines are then unavailable.
type DatabaseConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CatalogConfig upstream section catalog.
type CatalogConfig struct {
	DataURL         string        `mapstructure:"data_url"`
	ExamFeedURL     string        `mapstructure:"exam_feed_url"` // empty: use the catalog's own exam columns
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"` // 0 disables the refresh loop
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	PersistSnapshot bool          `mapstructure:"persist_snapshot"`
}

// RoutineConfig grid and calendar settings.
type RoutineConfig struct {
	TermStart    string             `mapstructure:"term_start"` // YYYY-MM-DD, first day of classes
	TermWeeks    int                `mapstructure:"term_weeks"` // weekly repeats in calendar exports
	Timezone     string             `mapstructure:"timezone"`
	ExamCacheTTL time.Duration      `mapstructure:"exam_cache_ttl"`
	Slots        []routine.SlotSpec `mapstructure:"slots"`
}

// TermStartDate parses TermStart in the configured timezone.
func (c *RoutineConfig) TermStartDate() (time.Time, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("routine.timezone %q: %w", c.Timezone, err)
	}
	return time.ParseInLocation("2006-01-02", c.TermStart, loc)
}

// SlotCatalog builds the display slots; no configured slots means the default
// seven bands.
func (c *RoutineConfig) SlotCatalog() (*routine.SlotCatalog, error) {
	if len(c.Slots) == 0 {
		return routine.DefaultSlotCatalog(), nil
	}
	return routine.NewSlotCatalog(c.Slots)
}

// RateLimitConfig per-IP request limit.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// Load reads configuration.
// Priority: environment > config file > defaults. A .env file in the working
// directory is loaded into the environment first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})

	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "routine_maker")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Dhaka")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("catalog.data_url", "https://usis-cdn.eniamza.com/connect.json")
	v.SetDefault("catalog.exam_feed_url", "")
	v.SetDefault("catalog.fetch_timeout", "15s")
	v.SetDefault("catalog.refresh_interval", "30m")
	v.SetDefault("catalog.max_body_bytes", 64<<20)
	v.SetDefault("catalog.persist_snapshot", true)

	v.SetDefault("routine.term_start", "2025-06-01")
	v.SetDefault("routine.term_weeks", 14)
	v.SetDefault("routine.timezone", "Asia/Dhaka")
	v.SetDefault("routine.exam_cache_ttl", "10m")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", "1m")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("ROUTINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// no config file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be within 1-65535")
	}
	if strings.TrimSpace(c.Catalog.DataURL) == "" {
		return fmt.Errorf("invalid config: catalog.data_url must not be empty")
	}
	if c.Catalog.FetchTimeout <= 0 {
		return fmt.Errorf("invalid config: catalog.fetch_timeout must be positive")
	}
	if c.Catalog.RefreshInterval < 0 {
		return fmt.Errorf("invalid config: catalog.refresh_interval must not be negative")
	}
	if _, err := c.Routine.TermStartDate(); err != nil {
		return fmt.Errorf("invalid config: routine.term_start: %w", err)
	}
	if c.Routine.TermWeeks <= 0 {
		return fmt.Errorf("invalid config: routine.term_weeks must be positive")
	}
	if _, err := c.Routine.SlotCatalog(); err != nil {
		return fmt.Errorf("invalid config: routine.slots: %w", err)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid config: rate_limit.requests and rate_limit.window must be positive")
	}
	return nil
}
