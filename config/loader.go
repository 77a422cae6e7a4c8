package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads config.yaml and config.<APP_ENVIRONMENT>.yaml from the usual
// locations. Every key can be overridden by an environment variable with the
// PROFORMA_ prefix, e.g. PROFORMA_REDIS_ADDRESS.
func Load() (*Config, error) {
	LoadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName("config." + env)
	_ = v.MergeInConfig() // optional

	return build(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	LoadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return build(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PROFORMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	applyDefaults(v)
	return v
}

func build(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadEnvFile loads the first .env found between the working directory and
// the module root. It returns the path loaded, or "" when none was found.
func LoadEnvFile() string {
	paths := []string{".env", "../.env", "../../.env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		s, ok := v.Get(key).(string)
		if !ok || !strings.Contains(s, "$") {
			continue
		}
		if expanded := os.ExpandEnv(s); expanded != s && expanded != "" {
			v.Set(key, expanded)
		}
	}
}

// overrideEmptyConfig fills credentials from the conventional unprefixed
// variables when the config leaves them empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Postgres.User == "" {
		cfg.Postgres.User = os.Getenv("DB_USER")
	}
	if cfg.Postgres.Password == "" {
		cfg.Postgres.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
}

// applyDefaults registers every key so that env overrides apply even when
// the file omits it.
func applyDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "proforma-engine")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 15000)
	v.SetDefault("server.idle_timeout", 60000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.capacity", 30)
	v.SetDefault("rate_limit.refill", 60000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "proforma")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.max_connections", 25)
	v.SetDefault("postgres.max_idle", 5)
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("engine.strict_validation", false)
	v.SetDefault("engine.cap_rate_step", 0.005)
	v.SetDefault("engine.rent_growth_step", 0.01)
	v.SetDefault("engine.interest_rate_step", 0.005)
	v.SetDefault("engine.cache_ttl", 600000)
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if cfg.RateLimit.Enabled && (cfg.RateLimit.Capacity <= 0 || cfg.RateLimit.Refill <= 0) {
		return fmt.Errorf("rate_limit.capacity and rate_limit.refill must be positive")
	}

	if cfg.Redis.Enabled && cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required when redis is enabled")
	}

	if cfg.Postgres.Enabled {
		if cfg.Postgres.Host == "" {
			return fmt.Errorf("postgres.host is required")
		}
		if cfg.Postgres.Database == "" {
			return fmt.Errorf("postgres.database is required")
		}
		if cfg.Postgres.User == "" {
			return fmt.Errorf("postgres.user is required")
		}
	}

	steps := map[string]float64{
		"engine.cap_rate_step":      cfg.Engine.CapRateStep,
		"engine.rent_growth_step":   cfg.Engine.RentGrowthStep,
		"engine.interest_rate_step": cfg.Engine.InterestRateStep,
	}
	for key, step := range steps {
		if step <= 0 || step >= 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %v", key, step)
		}
	}
	if cfg.Engine.CacheTTL < 0 {
		return fmt.Errorf("engine.cache_ttl must not be negative")
	}
	return nil
}
