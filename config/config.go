package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AdjustConfig fills zero values with the fixed defaults the cache design
// assumes. Callers may run it on a hand-built config; LoadConfig always does.
func (cfg *Cache) AdjustConfig() {
	if cfg.Social.Enabled() {
		if cfg.Social.RefreshInterval <= 0 {
			cfg.Social.RefreshInterval = DefaultRefreshInterval
		}
		if cfg.Social.PageLimit <= 0 {
			cfg.Social.PageLimit = DefaultPageLimit
		}
	} else {
		cfg.Social = &SocialCfg{RefreshInterval: DefaultRefreshInterval, PageLimit: DefaultPageLimit}
	}

	if cfg.Feed.Enabled() {
		if cfg.Feed.MemoryCap <= 0 {
			cfg.Feed.MemoryCap = DefaultMemoryCap
		}
		if cfg.Feed.DiskCap <= 0 {
			cfg.Feed.DiskCap = DefaultDiskCap
		}
		if cfg.Feed.Expiration <= 0 {
			cfg.Feed.Expiration = DefaultExpiration
		}
	} else {
		cfg.Feed = &FeedCfg{MemoryCap: DefaultMemoryCap, DiskCap: DefaultDiskCap, Expiration: DefaultExpiration}
	}

	if cfg.Store.OpenTimeout <= 0 {
		cfg.Store.OpenTimeout = time.Second
	}

	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval <= 0 {
		cfg.Telemetry.Interval = 5 * time.Second
	}
}

func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Cache
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.AdjustConfig()

	return cfg, nil
}

// Default returns a ready-to-use configuration with all fixed defaults.
func Default() *Cache {
	cfg := &Cache{}
	cfg.AdjustConfig()
	return cfg
}
