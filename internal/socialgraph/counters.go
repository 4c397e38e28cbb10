package socialgraph

import "sync/atomic"

type counters struct {
	lookups         atomic.Int64
	refreshes       atomic.Int64
	refreshFailures atomic.Int64
	persistFailures atomic.Int64
}

func newCounters() *counters {
	return &counters{}
}

func (c *counters) snapshot() (lookups, refreshes, refreshFailures, persistFailures int64) {
	return c.lookups.Load(), c.refreshes.Load(), c.refreshFailures.Load(), c.persistFailures.Load()
}
