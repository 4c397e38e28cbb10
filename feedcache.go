// Package feedcache is a client-side caching subsystem for a social/fitness
// feed. It bundles a social graph mirror (O(1) relationship queries with
// optimistic local mutation and an hourly remote refresh) and a two-tier
// feed item cache (in-memory LRU plus a durable, schema-versioned snapshot).
package feedcache

import (
	"context"
	"io"
	"log/slog"

	"github.com/benbjohnson/clock"

	"github.com/stridelab/go-feed-cache/config"
	"github.com/stridelab/go-feed-cache/internal/feed"
	"github.com/stridelab/go-feed-cache/internal/remote"
	"github.com/stridelab/go-feed-cache/internal/socialgraph"
	"github.com/stridelab/go-feed-cache/internal/store"
	"github.com/stridelab/go-feed-cache/internal/telemetry"
)

type FeedCache interface {
	socialgraph.Grapher
	feed.Feeder
	telemetry.Logger
	io.Closer
}

type Cache struct {
	*socialgraph.Graph
	*feed.Cache
	telemetry.Logger
	provider store.Provider
	cls      context.CancelFunc
}

// New wires the durable store, both cache managers and the telemetry loop.
// viewer is the local user all relationship queries are answered for. The
// caller owns the lifecycle: Close releases the telemetry loop and the store.
func New(ctx context.Context, cfg *config.Cache, logger *slog.Logger, source ProfileSource, viewer UserID) (*Cache, error) {
	cfg.AdjustConfig()
	ctx, cancel := context.WithCancel(ctx)

	var provider store.Provider
	if cfg.Store.Path != "" {
		bolt, err := store.OpenBolt(cfg.Store)
		if err != nil {
			cancel()
			return nil, err
		}
		provider = bolt
	} else {
		provider = store.NewMemory()
	}

	if cfg.Social.ThrottleRPS > 0 {
		source = remote.Throttled(source, cfg.Social.ThrottleRPS)
	}

	clk := clock.New()
	graph := socialgraph.New(cfg.Social, logger, source, provider.Namespace("social"), clk, viewer)
	feeder := feed.New(cfg.Feed, logger, provider.Namespace("feed"), clk)
	telemeter := telemetry.New(ctx, cfg.Telemetry, logger, graph, feeder)

	return &Cache{
		Graph:    graph,
		Cache:    feeder,
		Logger:   telemeter,
		provider: provider,
		cls:      cancel,
	}, nil
}

func (c *Cache) Close() error {
	c.cls()
	return c.provider.Close()
}
