package telemetry

import (
	"github.com/stridelab/go-feed-cache/internal/feed"
	"github.com/stridelab/go-feed-cache/internal/socialgraph"
)

type sampler struct {
	graph socialgraph.Grapher
	feed  feed.Feeder
}

func newSampler(g socialgraph.Grapher, f feed.Feeder) sampler {
	return sampler{graph: g, feed: f}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	graphLookups         uint64
	graphRefreshes       uint64
	graphRefreshFailures uint64
	graphPersistFailures uint64

	feedMemHits         uint64
	feedMemMisses       uint64
	feedDiskHits        uint64
	feedEvictions       uint64
	feedPersistFailures uint64
}

func (s sampler) snapshot() snapshot {
	lookups, refreshes, refreshFailures, graphPersistFailures := s.graph.GraphMetrics()
	memHits, memMisses, diskHits, evictions, feedPersistFailures := s.feed.FeedMetrics()

	return snapshot{
		graphLookups:         uint64(max(lookups, 0)),
		graphRefreshes:       uint64(max(refreshes, 0)),
		graphRefreshFailures: uint64(max(refreshFailures, 0)),
		graphPersistFailures: uint64(max(graphPersistFailures, 0)),

		feedMemHits:         uint64(max(memHits, 0)),
		feedMemMisses:       uint64(max(memMisses, 0)),
		feedDiskHits:        uint64(max(diskHits, 0)),
		feedEvictions:       uint64(max(evictions, 0)),
		feedPersistFailures: uint64(max(feedPersistFailures, 0)),
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		graphLookups:         delta(prev.graphLookups, cur.graphLookups),
		graphRefreshes:       delta(prev.graphRefreshes, cur.graphRefreshes),
		graphRefreshFailures: delta(prev.graphRefreshFailures, cur.graphRefreshFailures),
		graphPersistFailures: delta(prev.graphPersistFailures, cur.graphPersistFailures),

		feedMemHits:         delta(prev.feedMemHits, cur.feedMemHits),
		feedMemMisses:       delta(prev.feedMemMisses, cur.feedMemMisses),
		feedDiskHits:        delta(prev.feedDiskHits, cur.feedDiskHits),
		feedEvictions:       delta(prev.feedEvictions, cur.feedEvictions),
		feedPersistFailures: delta(prev.feedPersistFailures, cur.feedPersistFailures),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
