package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	DB   int    `mapstructure:"db"`
}

type JWTConfig struct {
	SecretKey   string `mapstructure:"secret_key"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type AuthConfig struct {
	// ServiceKey authenticates autonomous fleet workers and operator tooling.
	ServiceKey string `mapstructure:"service_key"`
}

type QueueConfig struct {
	// ClaimRetries bounds the compare-and-swap retry loop in the claim engine.
	ClaimRetries int `mapstructure:"claim_retries"`
	// MaxAttempts is how many times a task may be handed out before the
	// monitor forces it to Failed instead of requeueing it.
	MaxAttempts int `mapstructure:"max_attempts"`
	// PollWindowSeconds / PollMaxRequests shape the per-worker poll rate limit.
	PollWindowSeconds int `mapstructure:"poll_window_seconds"`
	PollMaxRequests   int `mapstructure:"poll_max_requests"`
}

type WorkerConfig struct {
	StaleAfterSeconds    int `mapstructure:"stale_after_seconds"`
	DeadAfterSeconds     int `mapstructure:"dead_after_seconds"`
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds"`
}

var cfg *Config

// Load loads the configuration from a yaml file
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "data/tasks.db")
	v.SetDefault("jwt.expire_hours", 72)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("queue.claim_retries", 3)
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.poll_window_seconds", 10)
	v.SetDefault("queue.poll_max_requests", 30)
	v.SetDefault("worker.stale_after_seconds", 60)
	v.SetDefault("worker.dead_after_seconds", 300)
	v.SetDefault("worker.sweep_interval_seconds", 60)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg = &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Get returns the loaded configuration
func Get() *Config {
	return cfg
}

// Set replaces the loaded configuration. Intended for tests.
func Set(c *Config) {
	cfg = c
}

// GetServerAddr returns the HTTP listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetRedisAddr returns the redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// StaleAfter returns the heartbeat age past which a worker is stale
func (c *Config) StaleAfter() time.Duration {
	return time.Duration(c.Worker.StaleAfterSeconds) * time.Second
}

// DeadAfter returns the heartbeat age past which a worker is dead
func (c *Config) DeadAfter() time.Duration {
	return time.Duration(c.Worker.DeadAfterSeconds) * time.Second
}

// SweepInterval returns how often the heartbeat monitor runs
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Worker.SweepIntervalSeconds) * time.Second
}
