package help

import (
	"time"

	"github.com/stridelab/go-feed-cache/config"
)

// Cfg returns an integration-test configuration: production defaults, a
// short telemetry interval and the durable tier at path.
func Cfg(path string) *config.Cache {
	cfg := &config.Cache{
		Store:     config.StoreCfg{Path: path, OpenTimeout: time.Second},
		Telemetry: &config.TelemetryCfg{Interval: time.Second},
	}
	cfg.AdjustConfig()
	return cfg
}
