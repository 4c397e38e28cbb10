package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/stridelab/go-feed-cache/config"
	"github.com/stridelab/go-feed-cache/internal/feed"
	"github.com/stridelab/go-feed-cache/internal/socialgraph"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.TelemetryCfg
	logger   *slog.Logger
	graph    socialgraph.Grapher
	feed     feed.Feeder
	interval time.Duration
}

func New(
	ctx context.Context,
	cfg *config.TelemetryCfg,
	logger *slog.Logger,
	graph socialgraph.Grapher,
	feeder feed.Feeder,
) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	l := &Logs{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
		graph:  graph,
		feed:   feeder,
	}
	if cfg.Enabled() {
		l.interval = cfg.Interval
	}
	return l.run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg.Enabled() {
		go l.loop()
	}
	return l
}

func (l *Logs) loop() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	s := newSampler(l.graph, l.feed)
	prev := s.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := s.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			common := []any{"interval", l.interval.String()}

			l.logger.Info("social_graph",
				append(common,
					"lookups", int64(d.graphLookups),
					"refreshes", int64(d.graphRefreshes),
					"refresh_failures", int64(d.graphRefreshFailures),
					"persist_failures", int64(d.graphPersistFailures),
				)...,
			)

			l.logger.Info("feed_cache",
				append(common,
					"mem_hits", int64(d.feedMemHits),
					"mem_misses", int64(d.feedMemMisses),
					"disk_hits", int64(d.feedDiskHits),
					"evictions", int64(d.feedEvictions),
					"persist_failures", int64(d.feedPersistFailures),
					"entries", l.feed.Len(),
				)...,
			)
		}
	}
}
