package config

import (
	"fmt"
	"time"
)

// Config is the application configuration of the pro forma server and CLI.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Engine    EngineConfig    `mapstructure:"engine"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	IdleTimeout     int    `mapstructure:"idle_timeout"`     // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// RateLimitConfig configures the per-client token bucket.
type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Capacity int  `mapstructure:"capacity"`
	Refill   int  `mapstructure:"refill"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RedisConfig enables the Redis result cache. When disabled an in-process
// cache is used.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig enables the PostgreSQL snapshot store. When disabled
// snapshots are kept in memory.
type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// EngineConfig tunes how the service layer drives the calculation engine.
type EngineConfig struct {
	// StrictValidation rejects assumptions with violations instead of
	// calculating on the sanitized values.
	StrictValidation bool    `mapstructure:"strict_validation"`
	CapRateStep      float64 `mapstructure:"cap_rate_step"`
	RentGrowthStep   float64 `mapstructure:"rent_growth_step"`
	InterestRateStep float64 `mapstructure:"interest_rate_step"`
	CacheTTL         int     `mapstructure:"cache_ttl"` // milliseconds, 0 disables caching
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
