package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"Rebalancer/internal/model"
)

// Supported price providers.
const (
	ProviderYahoo    = "yahoo"
	ProviderQuoteAPI = "quote_api"
	ProviderStatic   = "static"
)

// Config holds all application configuration.
type Config struct {
	Portfolio struct {
		Cash      float64       `yaml:"cash"`
		AllowSell bool          `yaml:"allow_sell"`
		Assets    []model.Asset `yaml:"assets"`
	} `yaml:"portfolio"`
	DataSource struct {
		Provider     string             `yaml:"provider"`
		BaseURL      string             `yaml:"base_url"`
		APIKey       string             `yaml:"api_key"`
		SymbolMap    map[string]string  `yaml:"symbol_map"`
		StaticPrices map[string]float64 `yaml:"static_prices"`
		Concurrency  int                `yaml:"concurrency"`
		Timeout      Duration           `yaml:"timeout"`
	} `yaml:"data_source"`
	Cache struct {
		SQLitePath string   `yaml:"sqlite_path"`
		TTL        Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Duration is a time.Duration that unmarshals from strings like "15m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
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

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads config from a YAML file, then .env, then environment variable overrides.
// A missing file is not an error; validation catches an empty portfolio.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env only fills variables that are not already set.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("REBALANCE_CASH"); v != "" {
		cash, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse REBALANCE_CASH: %w", err)
		}
		c.Portfolio.Cash = cash
	}
	if v := os.Getenv("REBALANCE_ALLOW_SELL"); v != "" {
		allow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse REBALANCE_ALLOW_SELL: %w", err)
		}
		c.Portfolio.AllowSell = allow
	}
	if v := os.Getenv("QUOTE_API_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Cache.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	for i := range c.Portfolio.Assets {
		c.Portfolio.Assets[i].Ticker = strings.TrimSpace(c.Portfolio.Assets[i].Ticker)
	}
	if c.DataSource.Provider == "" {
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = ProviderQuoteAPI
		} else {
			c.DataSource.Provider = ProviderYahoo
		}
	}
	if c.DataSource.Concurrency == 0 {
		c.DataSource.Concurrency = 4
	}
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = Duration(30 * time.Second)
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = Duration(15 * time.Minute)
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 30 9 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the portfolio and data source settings.
func (c *Config) Validate() error {
	if len(c.Portfolio.Assets) == 0 {
		return fmt.Errorf("portfolio.assets must not be empty")
	}
	if c.Portfolio.Cash < 0 {
		return fmt.Errorf("portfolio.cash must not be negative")
	}

	seen := make(map[string]bool, len(c.Portfolio.Assets))
	for i, a := range c.Portfolio.Assets {
		ticker := strings.TrimSpace(a.Ticker)
		if ticker == "" {
			return fmt.Errorf("portfolio.assets[%d]: ticker is required", i)
		}
		if seen[ticker] {
			return fmt.Errorf("portfolio.assets[%d]: duplicate ticker %q", i, ticker)
		}
		seen[ticker] = true
		if a.Priority < 0 {
			return fmt.Errorf("portfolio.assets[%d] %s: priority must not be negative", i, ticker)
		}
		if a.Quantity < 0 {
			return fmt.Errorf("portfolio.assets[%d] %s: quantity must not be negative", i, ticker)
		}
	}

	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderStatic:
	case ProviderQuoteAPI:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderQuoteAPI)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Concurrency < 1 {
		return fmt.Errorf("data_source.concurrency must be at least 1")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// TelegramEnabled reports whether both Telegram credentials are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
