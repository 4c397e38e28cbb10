package config

import "time"

type StoreCfg struct {
	// Path is the bbolt database file. Empty selects the in-memory store.
	Path string `yaml:"path"`

	// OpenTimeout bounds how long opening the database may block on the
	// file lock when another process holds it.
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

type TelemetryCfg struct {
	// Interval between stats log lines.
	Interval time.Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
