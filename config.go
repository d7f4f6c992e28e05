package typedis

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config describes the store endpoint and the bounds of the connection pool.
// New validates it once and never mutates it.
type Config struct {
	// Host of the store, trimmed before use (required).
	Host string `mapstructure:"host" yaml:"host"`
	// Port of the store, 1..65535.
	// default: 6379
	Port int `mapstructure:"port" yaml:"port"`
	// Password is optional; empty means no AUTH.
	Password string `mapstructure:"password" yaml:"password"`
	// DefaultDB is the logical database connections use unless a checkout asks otherwise.
	// default: 0
	DefaultDB int `mapstructure:"defaultdb" yaml:"defaultdb"`
	// DB is the deprecated spelling of DefaultDB. When set it wins and New logs a warning.
	DB *int `mapstructure:"db" yaml:"db"`
	// ReinitCooldownMs is the minimum interval between two pool rebuilds; <= 0 disables the guard.
	// default: 5000
	ReinitCooldownMs int64 `mapstructure:"reinit_pool_cooldown" yaml:"reinit-pool-cooldown"`
	// ConnTimeoutMs bounds connection establishment; 0 keeps the go-redis default.
	ConnTimeoutMs int `mapstructure:"conn_timeout" yaml:"conn-timeout"`
	// MaxTotalConns is the hard bound on live connections.
	// default: 64
	MaxTotalConns int `mapstructure:"conn_maxtotal" yaml:"conn-maxtotal"`
	// MaxIdleConns is the most idle connections kept around; 0 keeps none.
	// default: 16
	MaxIdleConns int `mapstructure:"conn_maxidle" yaml:"conn-maxidle"`
	// MinIdleConns is the number of idle connections the pool tries to keep warm.
	// default: 8
	MinIdleConns int `mapstructure:"conn_minidle" yaml:"conn-minidle"`
}

// DefaultConfig returns the configuration used when a field is left unset.
func DefaultConfig() *Config {
	return &Config{
		Host:             "127.0.0.1",
		Port:             6379,
		ReinitCooldownMs: 5000,
		MaxTotalConns:    64,
		MaxIdleConns:     16,
		MinIdleConns:     8,
	}
}

// MergeDefaults fills the host, port and pool bounds left at their zero value.
// MinIdleConns, DefaultDB and the timeouts keep their zero value since zero is meaningful for them.
func (c *Config) MergeDefaults() *Config {
	d := DefaultConfig()
	c.Host = coalesce(strings.TrimSpace(c.Host), d.Host)
	c.Port = coalesce(c.Port, d.Port)
	c.MaxTotalConns = coalesce(c.MaxTotalConns, d.MaxTotalConns)
	c.MaxIdleConns = coalesce(c.MaxIdleConns, min(d.MaxIdleConns, c.MaxTotalConns))
	return c
}

// Validate reports the first violated constraint as a *ConfigError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return errInvalidConfig("host", "cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errInvalidConfig("port", "must be between 1 and 65535, got %d", c.Port)
	}
	if c.DB != nil && *c.DB < 0 {
		return errInvalidConfig("db", "must be equal or greater than 0, got %d", *c.DB)
	}
	if c.DefaultDB < 0 {
		return errInvalidConfig("defaultdb", "must be equal or greater than 0, got %d", c.DefaultDB)
	}
	if c.ConnTimeoutMs < 0 {
		return errInvalidConfig("conn.timeout", "must be equal or greater than 0, got %d", c.ConnTimeoutMs)
	}
	if c.MaxTotalConns < 1 {
		return errInvalidConfig("conn.maxtotal", "must be equal or greater than 1, got %d", c.MaxTotalConns)
	}
	if c.MinIdleConns > c.MaxTotalConns {
		return errInvalidConfig("conn.minidle", "cannot be greater than %d", c.MaxTotalConns)
	}
	if c.MinIdleConns < 0 {
		return errInvalidConfig("conn.minidle", "must be equal or greater than 0, got %d", c.MinIdleConns)
	}
	if c.MaxIdleConns < c.MinIdleConns {
		return errInvalidConfig("conn.maxidle", "must be equal or greater than %d", c.MinIdleConns)
	}
	if c.MaxIdleConns > c.MaxTotalConns {
		return errInvalidConfig("conn.maxidle", "cannot be greater than %d", c.MaxTotalConns)
	}
	return nil
}

// database resolves the deprecated DB key against DefaultDB.
func (c *Config) database() int {
	if c.DB != nil {
		return *c.DB
	}
	return c.DefaultDB
}

func (c *Config) addr() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strconv.Itoa(c.Port))
}

// Endpoint is the URL logged whenever a pool is (re)built.
func (c *Config) Endpoint() string {
	return fmt.Sprintf("redis://%s:%d", strings.TrimSpace(c.Host), c.Port)
}

func (c *Config) reinitCooldown() time.Duration {
	return time.Duration(c.ReinitCooldownMs) * time.Millisecond
}

// poolMaxIdle maps MaxIdleConns onto go-redis, where 0 means unbounded.
// A negative bound makes go-redis close every released connection instead.
func (c *Config) poolMaxIdle() int {
	if c.MaxIdleConns == 0 {
		return -1
	}
	return c.MaxIdleConns
}

func (c *Config) redisOptions(poolTimeout time.Duration) *redis.Options {
	return &redis.Options{
		Addr:         c.addr(),
		Password:     c.Password,
		DB:           c.database(),
		DialTimeout:  time.Duration(c.ConnTimeoutMs) * time.Millisecond,
		PoolSize:     c.MaxTotalConns,
		MaxIdleConns: c.poolMaxIdle(),
		MinIdleConns: c.MinIdleConns,
		PoolTimeout:  poolTimeout,
		// failures surface to the caller as-is
		MaxRetries: -1,
	}
}
