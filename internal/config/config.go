// Package config loads agent settings from YAML with environment
// overrides. Zero-valued fields defer to the owning component's defaults,
// so a partial file or no file at all still yields a runnable setup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read.
const (
	EnvModelProvider   = "STOCKAGENT_MODEL_PROVIDER"
	EnvModelName       = "STOCKAGENT_MODEL_NAME"
	EnvModelBaseURL    = "STOCKAGENT_MODEL_BASE_URL"
	EnvModelAPIKeyEnv  = "STOCKAGENT_MODEL_API_KEY_ENV"
	EnvMarketBaseURL   = "STOCKAGENT_MARKET_BASE_URL"
	EnvMarketCacheSize = "STOCKAGENT_MARKET_CACHE_SIZE"
	EnvMarketCacheTTL  = "STOCKAGENT_MARKET_CACHE_TTL"
	EnvServerAddr      = "STOCKAGENT_SERVER_ADDR"
	EnvAgentMaxTurns   = "STOCKAGENT_AGENT_MAX_TURNS"
)

// Duration decodes YAML strings like "90s" or "2m" via time.ParseDuration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

type ModelConfig struct {
	Provider  string `yaml:"provider"`
	Name      string `yaml:"name"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type MarketConfig struct {
	BaseURL   string   `yaml:"base_url"`
	CacheSize int      `yaml:"cache_size"`
	CacheTTL  Duration `yaml:"cache_ttl"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AgentConfig struct {
	// MaxTurns caps model rounds per query. Zero means unbounded.
	MaxTurns int `yaml:"max_turns"`
}

type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Market MarketConfig `yaml:"market"`
	Server ServerConfig `yaml:"server"`
	Agent  AgentConfig  `yaml:"agent"`
}

// Default returns the built-in configuration. Model and market fields stay
// zero here; their packages pick the concrete defaults.
func Default() Config {
	return Config{
		Model:  ModelConfig{Provider: "openai"},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides, and validates the result. An empty path skips the file; a
// named file that is missing or malformed is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Model.Provider, EnvModelProvider)
	setString(&cfg.Model.Name, EnvModelName)
	setString(&cfg.Model.BaseURL, EnvModelBaseURL)
	setString(&cfg.Model.APIKeyEnv, EnvModelAPIKeyEnv)
	setString(&cfg.Market.BaseURL, EnvMarketBaseURL)
	setString(&cfg.Server.Addr, EnvServerAddr)

	if err := setInt(&cfg.Market.CacheSize, EnvMarketCacheSize); err != nil {
		return err
	}
	if err := setDuration(&cfg.Market.CacheTTL, EnvMarketCacheTTL); err != nil {
		return err
	}
	return setInt(&cfg.Agent.MaxTurns, EnvAgentMaxTurns)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = Duration(d)
	return nil
}

// Validate rejects values no component could act on.
func (c Config) Validate() error {
	switch c.Model.Provider {
	case "", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Market.CacheSize < 0 {
		return fmt.Errorf("market cache_size must not be negative, got %d", c.Market.CacheSize)
	}
	if c.Market.CacheTTL < 0 {
		return fmt.Errorf("market cache_ttl must not be negative, got %s", c.Market.CacheTTL)
	}
	if c.Agent.MaxTurns < 0 {
		return fmt.Errorf("agent max_turns must not be negative, got %d", c.Agent.MaxTurns)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	return nil
}
