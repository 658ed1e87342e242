package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EluvK/ai-sketch/internal/llm/provider"

	"github.com/BurntSushi/toml"
)

const (
	// CONFIG_FILE is the default config file searched in the working
	// directory when no --config flag is given.
	CONFIG_FILE = "ai-sketch.toml"

	// CONFIG_ENV_PREFIX is the prefix for environment overrides, e.g.
	// AISKETCH_LISTEN.
	CONFIG_ENV_PREFIX = "AISKETCH"
)

type ServerConfig struct {
	Listen string   `toml:"listen"`
	URL    string   `toml:"url"`
	Cors   []string `toml:"cors"`

	JWT      JWTConfig       `toml:"jwt"`
	LLM      provider.Config `toml:"llm"`
	BadgerDB BadgerDBConfig  `toml:"badgerdb"`
	Redis    RedisConfig     `toml:"redis"`
	Stats    StatsConfig     `toml:"stats"`
}

type JWTConfig struct {
	AccessSecret string        `toml:"access_secret"`
	AccessTTL    time.Duration `toml:"access_ttl"`
}

type BadgerDBConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type RedisConfig struct {
	Enabled    bool     `toml:"enabled"`
	Hosts      []string `toml:"hosts"`
	Password   string   `toml:"password"`
	DB         int      `toml:"db"`
	MasterName string   `toml:"master_name"`
	KeyPrefix  string   `toml:"key_prefix"`
}

type StatsConfig struct {
	Schedule string `toml:"schedule"`
}

// Load reads the server config from path, or from CONFIG_FILE in the
// working directory when path is empty. Environment variables with the
// CONFIG_ENV_PREFIX override scalar top level settings and secrets.
func Load(path string) (*ServerConfig, error) {
	if path == "" {
		path = CONFIG_FILE
	}

	cfg := &ServerConfig{
		Listen: "127.0.0.1:3000",
		JWT: JWTConfig{
			AccessTTL: 15 * time.Minute,
		},
		Stats: StatsConfig{
			Schedule: "5 0 * * *",
		},
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if path != CONFIG_FILE {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.URL == "" {
		cfg.URL = "http://" + cfg.Listen
	}
	if cfg.JWT.AccessSecret == "" {
		return nil, fmt.Errorf("jwt access_secret must be set")
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *ServerConfig) {
	if v := envValue("LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := envValue("URL"); v != "" {
		cfg.URL = v
	}
	if v := envValue("JWT_ACCESS_SECRET"); v != "" {
		cfg.JWT.AccessSecret = v
	}
	if v := envValue("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := envValue("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := envValue("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
}

func envValue(key string) string {
	return strings.TrimSpace(os.Getenv(CONFIG_ENV_PREFIX + "_" + key))
}
