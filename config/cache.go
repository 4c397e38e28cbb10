package config

// Cache groups configuration of both cache managers and their shared
// infrastructure. Zero values are filled in by AdjustConfig, so an empty
// struct is a fully working configuration.
type Cache struct {
	// Social configures the social graph cache (refresh policy, fetch paging).
	Social *SocialCfg `yaml:"social"`

	// Feed configures the feed item cache (tier caps, expiration window).
	Feed *FeedCfg `yaml:"feed"`

	// Store configures the durable key-value tier. An empty Path selects the
	// in-memory store, which does not survive restarts.
	Store StoreCfg `yaml:"store"`

	// Telemetry configures the periodic stats logger.
	// If nil, telemetry logging is disabled.
	Telemetry *TelemetryCfg `yaml:"telemetry"`
}
