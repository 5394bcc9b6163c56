package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"60s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORS            bool          `yaml:"cors" default:"true"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Provider struct {
		Type      string        `yaml:"type" default:"yahoo"`
		BaseURL   string        `yaml:"base_url" default:"https://query1.finance.yahoo.com"`
		UserAgent string        `yaml:"user_agent" default:"Mozilla/5.0 (compatible; StockTrend/1.0)"`
		Timeout   time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"provider"`
	Defaults struct {
		Ticker string `yaml:"ticker" default:"AAPL"`
		Start  string `yaml:"start" default:"2020-01-01"`
	} `yaml:"defaults"`
	Chart struct {
		Width  int `yaml:"width" default:"1152"`
		Height int `yaml:"height" default:"576"`
	} `yaml:"chart"`
	Session struct {
		Backend    string        `yaml:"backend" default:"memory"`
		CookieName string        `yaml:"cookie_name" default:"stocktrend_sid"`
		TTL        time.Duration `yaml:"ttl" default:"12h"`
		Redis      struct {
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"stocktrend:session:"`
		} `yaml:"redis"`
	} `yaml:"session"`
	RateLimit struct {
		Enabled      bool    `yaml:"enabled" default:"true"`
		Capacity     float64 `yaml:"capacity" default:"10"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"0.5"`
	} `yaml:"rate_limit"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"stocktrend.runs"`
		LogsTopic    string        `yaml:"logs_topic" default:"stocktrend.logs"`
		Compression  string        `yaml:"compression" default:"snappy"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"5s"`
	} `yaml:"events"`
	RunLog struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"stocktrend"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		Table       string        `yaml:"table" default:"analysis_runs"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
	} `yaml:"run_log"`
}

// Default returns a configuration populated only from struct defaults.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// defaults are static tags; failure is a programming error
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file on top of the defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads .env (if present), the YAML file (falling back to defaults
// when it does not exist) and then applies environment overrides.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		c = Default()
	} else if err != nil {
		return nil, err
	}

	if v := os.Getenv("STOCKTREND_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("STOCKTREND_PROVIDER"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("STOCKTREND_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("STOCKTREND_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Session.Backend = "redis"
		c.Session.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Enabled = true
		c.Events.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.RunLog.Enabled = true
		c.RunLog.Host = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Provider.Type {
	case "yahoo":
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider.base_url is required for yahoo")
		}
	case "financego":
	default:
		return fmt.Errorf("provider.type must be 'yahoo' or 'financego', got '%s'", c.Provider.Type)
	}
	if c.Defaults.Ticker == "" {
		return fmt.Errorf("defaults.ticker cannot be empty")
	}
	if _, err := time.Parse("2006-01-02", c.Defaults.Start); err != nil {
		return fmt.Errorf("defaults.start: %w", err)
	}
	if c.Session.Backend != "memory" && c.Session.Backend != "redis" {
		return fmt.Errorf("session.backend must be 'memory' or 'redis', got '%s'", c.Session.Backend)
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	if c.RunLog.Enabled && c.RunLog.Host == "" {
		return fmt.Errorf("run_log.host is required when the run log is enabled")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}
	return nil
}
