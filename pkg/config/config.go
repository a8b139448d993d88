package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Log         struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Provider struct {
		Type       string `yaml:"type"` // clickhouse or inline
		ClickHouse struct {
			Host             string        `yaml:"host"`
			Port             int           `yaml:"port"`
			Database         string        `yaml:"database"`
			Table            string        `yaml:"table"`
			User             string        `yaml:"user"`
			Password         string        `yaml:"password"`
			UseHTTP          bool          `yaml:"use_http"`
			DialTimeout      time.Duration `yaml:"dial_timeout"`
			ReadTimeout      time.Duration `yaml:"read_timeout"`
			MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		} `yaml:"clickhouse"`
	} `yaml:"provider"`
	Quant struct {
		FrontierExtension float64       `yaml:"frontier_extension"`
		SweepParallelism  int           `yaml:"sweep_parallelism"`
		PathParallelism   int           `yaml:"path_parallelism"`
		CacheTTL          time.Duration `yaml:"cache_ttl"`
	} `yaml:"quant"`
	Cache struct {
		Enabled bool `yaml:"enabled"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Audit struct {
		Enabled bool     `yaml:"enabled"`
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"audit"`
	Commentary struct {
		BaseURL string        `yaml:"base_url"`
		Model   string        `yaml:"model"`
		APIKey  string        `yaml:"api_key"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"commentary"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider.Type = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.Provider.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.Provider.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("AUDIT_BROKERS"); v != "" {
		c.Audit.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("COMMENTARY_URL"); v != "" {
		c.Commentary.BaseURL = v
	}
	if v := os.Getenv("COMMENTARY_API_KEY"); v != "" {
		c.Commentary.APIKey = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stdout"
	}
	if c.Quant.FrontierExtension == 0 {
		c.Quant.FrontierExtension = 1.2
	}
	if c.Quant.SweepParallelism == 0 {
		c.Quant.SweepParallelism = 4
	}
	if c.Quant.PathParallelism == 0 {
		c.Quant.PathParallelism = 4
	}
	if c.Quant.CacheTTL == 0 {
		c.Quant.CacheTTL = 15 * time.Minute
	}
	if c.Provider.ClickHouse.Table == "" {
		c.Provider.ClickHouse.Table = "adj_close_daily"
	}
	if c.Audit.Topic == "" {
		c.Audit.Topic = "portfolio.analysis.events"
	}
	if c.Commentary.BaseURL == "" {
		c.Commentary.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if c.Commentary.Model == "" {
		c.Commentary.Model = "gemini-1.5-flash"
	}
	if c.Commentary.Timeout == 0 {
		c.Commentary.Timeout = 30 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.Type != "clickhouse" && c.Provider.Type != "inline" {
		return fmt.Errorf("provider.type must be 'clickhouse' or 'inline', got '%s'", c.Provider.Type)
	}
	if c.Provider.Type == "clickhouse" && c.Provider.ClickHouse.Host == "" {
		return fmt.Errorf("provider.clickhouse.host is required")
	}
	if c.Quant.FrontierExtension < 1.0 {
		return fmt.Errorf("quant.frontier_extension must be >= 1.0, got %v", c.Quant.FrontierExtension)
	}
	if c.Audit.Enabled && len(c.Audit.Brokers) == 0 {
		return fmt.Errorf("audit.brokers is required when audit is enabled")
	}
	return nil
}
