package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port          string
	Sync          SyncConfig
	PriceMarkup   float64
	QuoteCacheTTL time.Duration
}

type SyncConfig struct {
	ChannelCron  string        `yaml:"channel_cron"`
	CalendarCron string        `yaml:"calendar_cron"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
}

type fileConfig struct {
	Sync          SyncConfig `yaml:"sync"`
	PriceMarkup   float64    `yaml:"price_markup"`
	QuoteCacheTTL string     `yaml:"quote_cache_ttl"`
}

// Load reads the optional YAML config file and environment overrides.
// Missing file or keys fall back to defaults that match production behavior.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "4000"),
		Sync: SyncConfig{
			ChannelCron:  "0 3 * * *",
			CalendarCron: "30 */6 * * *",
			FetchTimeout: 30 * time.Second,
		},
		PriceMarkup:   1.3,
		QuoteCacheTTL: 5 * time.Minute,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return nil, err
			}
			if fc.Sync.ChannelCron != "" {
				cfg.Sync.ChannelCron = fc.Sync.ChannelCron
			}
			if fc.Sync.CalendarCron != "" {
				cfg.Sync.CalendarCron = fc.Sync.CalendarCron
			}
			if fc.Sync.FetchTimeout > 0 {
				cfg.Sync.FetchTimeout = fc.Sync.FetchTimeout
			}
			if fc.PriceMarkup > 0 {
				cfg.PriceMarkup = fc.PriceMarkup
			}
			if fc.QuoteCacheTTL != "" {
				if ttl, err := time.ParseDuration(fc.QuoteCacheTTL); err == nil {
					cfg.QuoteCacheTTL = ttl
				}
			}
		}
	}

	if v := os.Getenv("PRICE_MARKUP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.PriceMarkup = f
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
