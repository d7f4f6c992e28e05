package typedis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the `redis:` section of a YAML configuration file:
//
//	redis:
//	  host: 127.0.0.1
//	  port: 6379
//	  password: secret
//	  defaultdb: 0
//	  reinit-pool-cooldown: 5000
//	  conn:
//	    timeout: 2000
//	    maxtotal: 64
//	    maxidle: 16
//	    minidle: 8
type fileConfig struct {
	Redis struct {
		Host             *string `yaml:"host"`
		Port             *int    `yaml:"port"`
		Password         *string `yaml:"password"`
		DefaultDB        *int    `yaml:"defaultdb"`
		DB               *int    `yaml:"db"`
		ReinitCooldownMs *int64  `yaml:"reinit-pool-cooldown"`
		Conn             struct {
			Timeout  *int `yaml:"timeout"`
			MaxTotal *int `yaml:"maxtotal"`
			MaxIdle  *int `yaml:"maxidle"`
			MinIdle  *int `yaml:"minidle"`
		} `yaml:"conn"`
	} `yaml:"redis"`
}

// ParseConfig decodes a YAML document on top of DefaultConfig.
// The result is not validated; New does that.
func ParseConfig(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("typedis: parse config: %w", err)
	}
	cfg := DefaultConfig()
	r := fc.Redis
	set(&cfg.Host, r.Host)
	set(&cfg.Port, r.Port)
	set(&cfg.Password, r.Password)
	set(&cfg.DefaultDB, r.DefaultDB)
	set(&cfg.ReinitCooldownMs, r.ReinitCooldownMs)
	set(&cfg.ConnTimeoutMs, r.Conn.Timeout)
	set(&cfg.MaxTotalConns, r.Conn.MaxTotal)
	set(&cfg.MaxIdleConns, r.Conn.MaxIdle)
	set(&cfg.MinIdleConns, r.Conn.MinIdle)
	cfg.DB = r.DB
	return cfg, nil
}

// LoadConfigFile reads and parses the YAML file at path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("typedis: read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
