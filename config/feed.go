package config

import "time"

const (
	// DefaultMemoryCap bounds the in-memory LRU tier.
	DefaultMemoryCap = 50

	// DefaultDiskCap bounds the durable snapshot tier.
	DefaultDiskCap = 200

	// DefaultExpiration is the freshness window for the durable snapshot;
	// a snapshot older than this is wiped on load.
	DefaultExpiration = 24 * time.Hour
)

type FeedCfg struct {
	// MemoryCap is the maximum number of posts held in the LRU tier.
	// The least-recently-touched post is evicted first once exceeded.
	MemoryCap int `yaml:"memory_cap"`

	// DiskCap is the maximum number of posts written to the durable snapshot.
	// The first DiskCap posts of each save, in caller order, are kept.
	DiskCap int `yaml:"disk_cap"`

	// Expiration is how long the durable snapshot remains servable.
	Expiration time.Duration `yaml:"expiration"`
}

func (cfg *FeedCfg) Enabled() bool {
	return cfg != nil
}
