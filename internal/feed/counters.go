package feed

import "sync/atomic"

type counters struct {
	memHits         atomic.Int64
	memMisses       atomic.Int64
	diskHits        atomic.Int64
	evictions       atomic.Int64
	persistFailures atomic.Int64
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() (memHits, memMisses, diskHits, evictions, persistFailures int64) {
	return c.memHits.Load(), c.memMisses.Load(), c.diskHits.Load(), c.evictions.Load(), c.persistFailures.Load()
}
