// Package feed implements the two-tier feed item cache: a bounded in-memory
// LRU for repeated reads within one process lifetime, and a durable snapshot
// of the most recently saved post list that survives restarts until it
// expires or the schema version moves on. The tiers are deliberately not
// reconciled on read miss; the snapshot is the source for cold starts only.
package feed

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/stridelab/go-feed-cache/config"
	"github.com/stridelab/go-feed-cache/internal/store"
	"github.com/stridelab/go-feed-cache/model"
)

// SchemaVersion is stamped next to persisted data. Bump it on incompatible
// layout changes; a lower persisted version invalidates the whole cache on
// construction instead of migrating it.
const SchemaVersion = 4

const (
	itemsKey        = "feed_items"
	interactionsKey = "feed_interactions"
	savedAtKey      = "feed_saved_at"
	versionKey      = "feed_schema_version"
)

type Feeder interface {
	SavePosts(posts []model.Post)
	LoadPosts() ([]model.Post, bool)
	GetPost(id string) (model.Post, bool)
	SaveInteractions(interactions map[string]model.Interaction)
	LoadInteractions() map[string]model.Interaction
	ClearCache()
	Len() int
	FeedMetrics() (memHits, memMisses, diskHits, evictions, persistFailures int64)
}

// Cache is single-writer many-reader; one mutex serializes all operations
// including LRU promotion on read, so the recency order is never racy
// relative to the index.
type Cache struct {
	mu       sync.Mutex
	memory   *lru.Cache[string, model.Post]
	cfg      *config.FeedCfg
	logger   *slog.Logger
	store    store.Store
	clock    clock.Clock
	counters *counters
}

func New(cfg *config.FeedCfg, logger *slog.Logger, st store.Store, clk clock.Clock) *Cache {
	memory, _ := lru.New[string, model.Post](cfg.MemoryCap)
	c := &Cache{
		memory:   memory,
		cfg:      cfg,
		logger:   logger,
		store:    st,
		clock:    clk,
		counters: newCounters(),
	}
	c.migrate()
	return c
}

// SavePosts inserts posts into the memory tier (most-recently-used last,
// evicting the oldest over the cap) and replaces the durable snapshot with
// the first DiskCap posts in caller order. Posts without an id are skipped.
func (c *Cache) SavePosts(posts []model.Post) {
	keep := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID == "" {
			continue
		}
		keep = append(keep, p)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range keep {
		if evicted := c.memory.Add(p.ID, p); evicted {
			c.counters.evictions.Add(1)
		}
	}

	snapshot := keep
	if len(snapshot) > c.cfg.DiskCap {
		snapshot = snapshot[:c.cfg.DiskCap]
	}
	c.persistSnapshotLocked(snapshot)
}

// LoadPosts returns the durable snapshot, or nothing when it is missing or
// past the expiration window. An expired snapshot wipes the whole cache so
// stale data is never served again after the miss.
func (c *Cache) LoadPosts() ([]model.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	savedAt, ok := c.savedAtLocked()
	if !ok || c.clock.Now().Sub(savedAt) > c.cfg.Expiration {
		c.clearLocked()
		return nil, false
	}

	snapshot, ok := c.snapshotLocked()
	if !ok || len(snapshot) == 0 {
		return nil, false
	}
	c.counters.diskHits.Add(1)
	return snapshot, true
}

// GetPost answers from the memory tier first, promoting the post to
// most-recently-used on a hit. On a miss it scans the durable snapshot;
// disk hits are returned as-is and not promoted into memory.
func (c *Cache) GetPost(id string) (model.Post, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if post, ok := c.memory.Get(id); ok {
		c.counters.memHits.Add(1)
		return post, true
	}
	c.counters.memMisses.Add(1)

	snapshot, ok := c.snapshotLocked()
	if !ok {
		return model.Post{}, false
	}
	for _, post := range snapshot {
		if post.ID == id {
			c.counters.diskHits.Add(1)
			return post, true
		}
	}
	return model.Post{}, false
}

// SaveInteractions replaces the durable interaction map. No cap, no
// expiration; encode or write failures are swallowed.
func (c *Cache) SaveInteractions(interactions map[string]model.Interaction) {
	data, err := encodeFramed(interactions)
	if err != nil {
		c.counters.persistFailures.Add(1)
		c.logger.Warn("feed interactions encode failed", "err", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.store.Set(interactionsKey, data); err != nil {
		c.counters.persistFailures.Add(1)
		c.logger.Warn("feed interactions persist failed", "err", err)
	}
}

// LoadInteractions returns the durable interaction map, empty when nothing
// valid is stored.
func (c *Cache) LoadInteractions() map[string]model.Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok, err := c.store.Get(interactionsKey)
	if err != nil || !ok {
		if err != nil {
			c.logger.Warn("feed interactions read failed", "err", err)
		}
		return map[string]model.Interaction{}
	}

	interactions := map[string]model.Interaction{}
	if err = decodeFramed(data, &interactions); err != nil {
		c.logger.Warn("feed interactions decode failed", "err", err)
		return map[string]model.Interaction{}
	}
	return interactions
}

// ClearCache empties both tiers, deletes every durable key and stamps the
// current schema version so the migration gate does not re-fire on the next
// construction.
func (c *Cache) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.memory.Len()
}

func (c *Cache) FeedMetrics() (memHits, memMisses, diskHits, evictions, persistFailures int64) {
	return c.counters.snapshot()
}

/**
 * Private API.
 */

// migrate compares the persisted schema version against SchemaVersion and
// invalidates everything on a strictly lower value. Cached feed items are
// disposable, so the gate is a blunt clear rather than a data transform.
func (c *Cache) migrate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	persisted := 0
	if data, ok, err := c.store.Get(versionKey); err == nil && ok {
		if v, perr := strconv.Atoi(string(data)); perr == nil {
			persisted = v
		}
	}
	if persisted < SchemaVersion {
		c.clearLocked()
	}
}

func (c *Cache) clearLocked() {
	c.memory.Purge()
	for _, key := range []string{itemsKey, savedAtKey, interactionsKey} {
		if err := c.store.Remove(key); err != nil {
			c.counters.persistFailures.Add(1)
			c.logger.Warn("feed cache key delete failed", "key", key, "err", err)
		}
	}
	if err := c.store.Set(versionKey, []byte(strconv.Itoa(SchemaVersion))); err != nil {
		c.counters.persistFailures.Add(1)
		c.logger.Warn("feed schema version stamp failed", "err", err)
	}
}

func (c *Cache) persistSnapshotLocked(snapshot []model.Post) {
	data, err := encodeFramed(snapshot)
	if err != nil {
		c.counters.persistFailures.Add(1)
		c.logger.Warn("feed snapshot encode failed", "err", err)
		return
	}
	if err = c.store.Set(itemsKey, data); err != nil {
		c.counters.persistFailures.Add(1)
		c.logger.Warn("feed snapshot persist failed", "err", err)
		return
	}

	epoch := float64(c.clock.Now().UnixNano()) / float64(time.Second)
	if err = c.store.Set(savedAtKey, []byte(strconv.FormatFloat(epoch, 'f', -1, 64))); err != nil {
		c.counters.persistFailures.Add(1)
		c.logger.Warn("feed saved-at persist failed", "err", err)
	}
}

func (c *Cache) snapshotLocked() ([]model.Post, bool) {
	data, ok, err := c.store.Get(itemsKey)
	if err != nil || !ok {
		if err != nil {
			c.logger.Warn("feed snapshot read failed", "err", err)
		}
		return nil, false
	}

	var snapshot []model.Post
	if err = decodeFramed(data, &snapshot); err != nil {
		c.logger.Warn("feed snapshot decode failed", "err", err)
		return nil, false
	}
	return snapshot, true
}

func (c *Cache) savedAtLocked() (time.Time, bool) {
	data, ok, err := c.store.Get(savedAtKey)
	if err != nil || !ok {
		return time.Time{}, false
	}
	epoch, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		c.logger.Warn("feed saved-at decode failed", "err", err)
		return time.Time{}, false
	}
	return time.Unix(0, int64(epoch*float64(time.Second))), true
}
