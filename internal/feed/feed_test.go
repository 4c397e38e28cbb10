package feed

import (
	"fmt"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/stridelab/go-feed-cache/config"
	"github.com/stridelab/go-feed-cache/internal/store"
	"github.com/stridelab/go-feed-cache/model"
)

func testCfg() *config.FeedCfg {
	return &config.FeedCfg{MemoryCap: 5, DiskCap: 10, Expiration: 24 * time.Hour}
}

func newTestCache(cfg *config.FeedCfg) (*Cache, store.Store, *clock.Mock) {
	st := store.NewMemory().Namespace("feed")
	clk := clock.NewMock()
	clk.Add(time.Hour)
	return New(cfg, slog.Default(), st, clk), st, clk
}

func posts(ids ...string) []model.Post {
	out := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Post{ID: id, AuthorID: "author", Caption: "run " + id})
	}
	return out
}

func TestCache_SavePosts_SkipsMissingIDs(t *testing.T) {
	c, _, _ := newTestCache(testCfg())

	c.SavePosts([]model.Post{{ID: "p1"}, {Caption: "no id"}, {ID: "p2"}})

	require.Equal(t, 2, c.Len())
	_, ok := c.GetPost("p1")
	require.True(t, ok)
}

func TestCache_Eviction_OldestFirst(t *testing.T) {
	cfg := testCfg()
	c, _, _ := newTestCache(cfg)

	// memoryCap + k distinct inserts leave exactly the cap most recent.
	k := 3
	for i := 0; i < cfg.MemoryCap+k; i++ {
		c.SavePosts(posts(fmt.Sprintf("p%d", i)))
	}

	require.Equal(t, cfg.MemoryCap, c.Len())
	for i := 0; i < k; i++ {
		require.NotContains(t, c.memory.Keys(), fmt.Sprintf("p%d", i), "oldest must be evicted first")
	}
	for i := k; i < cfg.MemoryCap+k; i++ {
		require.Contains(t, c.memory.Keys(), fmt.Sprintf("p%d", i))
	}
}

func TestCache_RecencyOrderMatchesIndex(t *testing.T) {
	c, _, _ := newTestCache(testCfg())
	c.SavePosts(posts("a", "b", "c"))
	c.GetPost("a")
	c.SavePosts(posts("b"))

	keys := c.memory.Keys()
	require.Len(t, keys, c.memory.Len())
	seen := map[string]bool{}
	for _, k := range keys {
		require.False(t, seen[k], "no duplicates in recency order")
		seen[k] = true
		_, ok := c.memory.Peek(k)
		require.True(t, ok, "every ordered key resolves in the index")
	}
}

func TestCache_GetPost_TouchProtectsFromEviction(t *testing.T) {
	cfg := testCfg()
	c, _, _ := newTestCache(cfg)
	for i := 0; i < cfg.MemoryCap; i++ {
		c.SavePosts(posts(fmt.Sprintf("p%d", i)))
	}

	// Touch the oldest entry, then push one more in.
	_, ok := c.GetPost("p0")
	require.True(t, ok)
	c.SavePosts(posts("fresh"))

	_, ok = c.GetPost("p0")
	require.True(t, ok, "touched entry must survive")
	require.NotContains(t, c.memory.Keys(), "p1", "untouched oldest goes instead")
}

func TestCache_GetPost_DiskFallthroughDoesNotPromote(t *testing.T) {
	cfg := testCfg()
	c, _, _ := newTestCache(cfg)
	c.SavePosts(posts("a", "b", "c", "d", "e", "f", "g")) // f,g overflow memory? cap=5: a,b evicted

	require.NotContains(t, c.memory.Keys(), "a")

	got, ok := c.GetPost("a")
	require.True(t, ok, "snapshot scan must find the post")
	require.Equal(t, "a", got.ID)
	require.NotContains(t, c.memory.Keys(), "a", "disk hits are not promoted into memory")
}

func TestCache_GetPost_MissesBothTiers(t *testing.T) {
	c, _, _ := newTestCache(testCfg())
	c.SavePosts(posts("a"))

	_, ok := c.GetPost("nope")
	require.False(t, ok)
}

func TestCache_LoadPosts_ReturnsSnapshotInCallerOrder(t *testing.T) {
	c, _, _ := newTestCache(testCfg())
	in := posts("z", "a", "m")
	c.SavePosts(in)

	got, ok := c.LoadPosts()
	require.True(t, ok)
	require.Equal(t, in, got, "snapshot is verbatim, not LRU ordered")
}

func TestCache_LoadPosts_DiskCapIndependentOfMemoryCap(t *testing.T) {
	cfg := testCfg() // memory 5, disk 10
	c, _, _ := newTestCache(cfg)

	var in []model.Post
	for i := 0; i < 15; i++ {
		in = append(in, model.Post{ID: fmt.Sprintf("p%d", i)})
	}
	c.SavePosts(in)

	got, ok := c.LoadPosts()
	require.True(t, ok)
	require.Len(t, got, cfg.DiskCap)
	require.Equal(t, in[:cfg.DiskCap], got, "first DiskCap items in caller order")
	require.Equal(t, cfg.MemoryCap, c.Len())
}

func TestCache_LoadPosts_ExpiredWipesBothTiers(t *testing.T) {
	c, st, clk := newTestCache(testCfg())
	c.SavePosts(posts("a", "b"))

	clk.Add(24*time.Hour + time.Minute)

	got, ok := c.LoadPosts()
	require.False(t, ok)
	require.Nil(t, got)
	require.Equal(t, 0, c.Len())

	_, ok = c.GetPost("a")
	require.False(t, ok)
	_, present, err := st.Get(itemsKey)
	require.NoError(t, err)
	require.False(t, present, "durable snapshot must be gone")
}

func TestCache_LoadPosts_FreshWithinWindow(t *testing.T) {
	c, _, clk := newTestCache(testCfg())
	c.SavePosts(posts("a"))

	clk.Add(23 * time.Hour)

	got, ok := c.LoadPosts()
	require.True(t, ok)
	require.Len(t, got, 1)
}

func TestCache_LoadPosts_NoTimestampMeansExpired(t *testing.T) {
	c, st, _ := newTestCache(testCfg())
	c.SavePosts(posts("a"))
	require.NoError(t, st.Remove(savedAtKey))

	_, ok := c.LoadPosts()
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}

func TestCache_Interactions_RoundTrip(t *testing.T) {
	c, _, _ := newTestCache(testCfg())
	in := map[string]model.Interaction{
		"p1": {Liked: true, LastViewedAt: 123},
		"p2": {Bookmarked: true},
	}

	c.SaveInteractions(in)

	require.Equal(t, in, c.LoadInteractions())
}

func TestCache_Interactions_EmptyWhenMissingOrCorrupt(t *testing.T) {
	c, st, _ := newTestCache(testCfg())
	require.Empty(t, c.LoadInteractions())

	require.NoError(t, st.Set(interactionsKey, []byte("garbage")))
	require.Empty(t, c.LoadInteractions())
}

func TestCache_ClearCache_RemovesKeysAndStampsVersion(t *testing.T) {
	c, st, _ := newTestCache(testCfg())
	c.SavePosts(posts("a"))
	c.SaveInteractions(map[string]model.Interaction{"a": {Liked: true}})

	c.ClearCache()

	require.Equal(t, 0, c.Len())
	for _, key := range []string{itemsKey, savedAtKey, interactionsKey} {
		_, ok, err := st.Get(key)
		require.NoError(t, err)
		require.False(t, ok, "key %s must be deleted", key)
	}
	data, ok, err := st.Get(versionKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, strconv.Itoa(SchemaVersion), string(data))
}

func TestCache_Migration_LowerVersionClears(t *testing.T) {
	st := store.NewMemory().Namespace("feed")
	clk := clock.NewMock()
	clk.Add(time.Hour)

	c := New(testCfg(), slog.Default(), st, clk)
	c.SavePosts(posts("a"))

	// Roll the persisted version back, as an old build would have left it.
	require.NoError(t, st.Set(versionKey, []byte("3")))

	c2 := New(testCfg(), slog.Default(), st, clk)

	_, ok := c2.LoadPosts()
	require.False(t, ok, "stale-schema snapshot must be invalidated")
	data, ok2, err := st.Get(versionKey)
	require.NoError(t, err)
	require.True(t, ok2)
	require.Equal(t, "4", string(data))
}

func TestCache_Migration_CurrentVersionKeepsData(t *testing.T) {
	st := store.NewMemory().Namespace("feed")
	clk := clock.NewMock()
	clk.Add(time.Hour)

	c := New(testCfg(), slog.Default(), st, clk)
	c.SavePosts(posts("a"))

	c2 := New(testCfg(), slog.Default(), st, clk)

	got, ok := c2.LoadPosts()
	require.True(t, ok)
	require.Len(t, got, 1)
}

func TestCache_CorruptSnapshotTreatedAsEmpty(t *testing.T) {
	c, st, _ := newTestCache(testCfg())
	c.SavePosts(posts("a"))

	// Flip a payload byte so the checksum no longer matches.
	data, ok, err := st.Get(itemsKey)
	require.NoError(t, err)
	require.True(t, ok)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, st.Set(itemsKey, data))

	got, ok := c.LoadPosts()
	require.False(t, ok)
	require.Nil(t, got)
}

func TestCache_Metrics(t *testing.T) {
	c, _, _ := newTestCache(testCfg())
	c.SavePosts(posts("a"))

	c.GetPost("a")    // memory hit
	c.GetPost("a")    // memory hit
	c.GetPost("nope") // miss in both tiers

	memHits, memMisses, _, _, _ := c.FeedMetrics()
	require.Equal(t, int64(2), memHits)
	require.Equal(t, int64(1), memMisses)
}
