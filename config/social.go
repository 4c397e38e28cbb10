package config

import "time"

const (
	// DefaultRefreshInterval is how long cached relationship state is served
	// without consulting the remote profile service.
	DefaultRefreshInterval = time.Hour

	// DefaultPageLimit caps how many following/follower identifiers are
	// fetched per refresh. Counts are authoritative and may exceed it.
	DefaultPageLimit = 1000
)

type SocialCfg struct {
	// RefreshInterval defines the freshness window for counts and sets.
	// A count query older than this triggers a full refresh before answering.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// PageLimit is the maximum number of identifiers requested from the
	// remote source per list fetch.
	PageLimit int `yaml:"page_limit"`

	// ThrottleRPS, when > 0, rate-limits outbound profile-API calls.
	ThrottleRPS int `yaml:"throttle_rps"`
}

func (cfg *SocialCfg) Enabled() bool {
	return cfg != nil
}
