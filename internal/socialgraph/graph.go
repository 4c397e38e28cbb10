// Package socialgraph maintains a local mirror of one user's social graph:
// who they follow, who follows them, and the mutual intersection. Membership
// queries are O(1) against in-memory sets; counts come from the remote
// profile service and are refreshed at most once per refresh interval.
// Every mutation is mirrored to the durable tier so the graph survives
// restarts without a network round trip.
package socialgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/stridelab/go-feed-cache/config"
	"github.com/stridelab/go-feed-cache/internal/remote"
	"github.com/stridelab/go-feed-cache/internal/store"
	"github.com/stridelab/go-feed-cache/model"
)

const recordKey = "social_graph"

type Grapher interface {
	IsFollowing(id model.UserID) bool
	IsFollowedBy(id model.UserID) bool
	IsMutual(id model.UserID) bool
	FilterFollowing(ids []model.UserID) []model.UserID
	FollowingCount(ctx context.Context, userID model.UserID) int
	FollowersCount(ctx context.Context, userID model.UserID) int
	Refresh(ctx context.Context, userID model.UserID) error
	AddFollowing(id model.UserID)
	RemoveFollowing(id model.UserID)
	Clear()
	GraphMetrics() (lookups, refreshes, refreshFailures, persistFailures int64)
}

// Graph is single-writer many-reader: one RWMutex guards the sets, counts
// and refresh timestamp. Network I/O for a refresh happens outside the lock;
// concurrent refreshes are last-write-wins.
type Graph struct {
	mu              sync.RWMutex
	following       map[model.UserID]struct{}
	followers       map[model.UserID]struct{}
	mutual          map[model.UserID]struct{}
	followingCount  int
	followersCount  int
	lastRefreshedAt time.Time // zero means never synced, unconditionally stale

	viewer   model.UserID
	cfg      *config.SocialCfg
	logger   *slog.Logger
	source   remote.Source
	store    store.Store
	clock    clock.Clock
	counters *counters
}

func New(cfg *config.SocialCfg, logger *slog.Logger, source remote.Source, st store.Store, clk clock.Clock, viewer model.UserID) *Graph {
	g := &Graph{
		following: make(map[model.UserID]struct{}),
		followers: make(map[model.UserID]struct{}),
		mutual:    make(map[model.UserID]struct{}),
		viewer:    viewer,
		cfg:       cfg,
		logger:    logger,
		source:    source,
		store:     st,
		clock:     clk,
		counters:  newCounters(),
	}
	g.hydrate()
	return g
}

// IsFollowing reports whether the local user follows id. Pure memory lookup,
// never triggers a refresh.
func (g *Graph) IsFollowing(id model.UserID) bool {
	g.counters.lookups.Add(1)
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.following[id]
	return ok
}

// IsFollowedBy reports whether id follows the local user.
func (g *Graph) IsFollowedBy(id model.UserID) bool {
	g.counters.lookups.Add(1)
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.followers[id]
	return ok
}

// IsMutual reports whether both directions exist. Mutual is maintained on
// every mutation, not recomputed here.
func (g *Graph) IsMutual(id model.UserID) bool {
	g.counters.lookups.Add(1)
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.mutual[id]
	return ok
}

// FilterFollowing returns the subset of ids the local user follows.
func (g *Graph) FilterFollowing(ids []model.UserID) []model.UserID {
	g.counters.lookups.Add(1)
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]model.UserID, 0, len(ids))
	for _, id := range ids {
		if _, ok := g.following[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// FollowingCount returns the authoritative following count, refreshing first
// when the cached state is older than the refresh interval. A failed refresh
// is logged and the freshest available count is served.
func (g *Graph) FollowingCount(ctx context.Context, userID model.UserID) int {
	g.refreshIfStale(ctx, userID)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.followingCount
}

// FollowersCount is the follower-side twin of FollowingCount.
func (g *Graph) FollowersCount(ctx context.Context, userID model.UserID) int {
	g.refreshIfStale(ctx, userID)
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.followersCount
}

// Refresh reconciles local state against the profile service. The profile
// fetch commits counts first; list fetches then replace the sets. On a list
// failure the new counts are kept while sets stay stale, which can leave
// counts and membership divergent until the next successful refresh.
func (g *Graph) Refresh(ctx context.Context, userID model.UserID) error {
	profile, err := g.source.FetchProfile(ctx, userID, g.viewer)
	if err != nil {
		g.counters.refreshFailures.Add(1)
		return fmt.Errorf("refresh profile %s: %w", userID, err)
	}

	g.mu.Lock()
	g.followingCount = profile.FollowingCount
	g.followersCount = profile.FollowerCount
	g.persistLocked()
	g.mu.Unlock()

	following, err := g.source.FetchFollowing(ctx, userID, g.viewer, g.cfg.PageLimit)
	if err != nil {
		g.counters.refreshFailures.Add(1)
		return fmt.Errorf("refresh following list %s: %w", userID, err)
	}
	followers, err := g.source.FetchFollowers(ctx, userID, g.viewer, g.cfg.PageLimit)
	if err != nil {
		g.counters.refreshFailures.Add(1)
		return fmt.Errorf("refresh followers list %s: %w", userID, err)
	}

	g.mu.Lock()
	g.following = toSet(following)
	g.followers = toSet(followers)
	g.mutual = intersect(g.following, g.followers)
	g.lastRefreshedAt = g.clock.Now()
	g.persistLocked()
	g.mu.Unlock()

	g.counters.refreshes.Add(1)
	return nil
}

// AddFollowing applies an optimistic follow before server confirmation.
// The followers side is never touched: the local user cannot mutate who
// follows them.
func (g *Graph) AddFollowing(id model.UserID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.following[id] = struct{}{}
	g.followingCount++
	if _, ok := g.followers[id]; ok {
		g.mutual[id] = struct{}{}
	}
	g.persistLocked()
}

// RemoveFollowing applies an optimistic unfollow. The count never goes
// negative even when id was not locally known.
func (g *Graph) RemoveFollowing(id model.UserID) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.following, id)
	delete(g.mutual, id)
	if g.followingCount > 0 {
		g.followingCount--
	}
	g.persistLocked()
}

// Clear empties all local state and deletes the durable record. Used on
// logout.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.following = make(map[model.UserID]struct{})
	g.followers = make(map[model.UserID]struct{})
	g.mutual = make(map[model.UserID]struct{})
	g.followingCount = 0
	g.followersCount = 0
	g.lastRefreshedAt = time.Time{}

	if err := g.store.Remove(recordKey); err != nil {
		g.counters.persistFailures.Add(1)
		g.logger.Warn("social graph record delete failed", "err", err)
	}
}

func (g *Graph) GraphMetrics() (lookups, refreshes, refreshFailures, persistFailures int64) {
	return g.counters.snapshot()
}

/**
 * Private API.
 */

func (g *Graph) refreshIfStale(ctx context.Context, userID model.UserID) {
	g.mu.RLock()
	fresh := !g.lastRefreshedAt.IsZero() && g.clock.Now().Sub(g.lastRefreshedAt) <= g.cfg.RefreshInterval
	g.mu.RUnlock()
	if fresh {
		return
	}
	if err := g.Refresh(ctx, userID); err != nil {
		g.logger.Warn("social graph refresh failed, serving stale state", "user", string(userID), "err", err)
	}
}

// persistLocked mirrors current state to the durable tier. Callers hold the
// write lock. Failures are non-fatal: memory stays the source of truth.
func (g *Graph) persistLocked() {
	rec := model.GraphRecord{
		Following:      toList(g.following),
		Followers:      toList(g.followers),
		Mutual:         toList(g.mutual),
		FollowingCount: g.followingCount,
		FollowersCount: g.followersCount,
	}
	if !g.lastRefreshedAt.IsZero() {
		rec.Timestamp = g.lastRefreshedAt.Unix()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		g.counters.persistFailures.Add(1)
		g.logger.Warn("social graph record encode failed", "err", err)
		return
	}
	if err = g.store.Set(recordKey, data); err != nil {
		g.counters.persistFailures.Add(1)
		g.logger.Warn("social graph record persist failed", "err", err)
	}
}

// hydrate loads the durable record on construction. Any failure leaves the
// graph empty, as if nothing had been persisted.
func (g *Graph) hydrate() {
	data, ok, err := g.store.Get(recordKey)
	if err != nil {
		g.logger.Warn("social graph record read failed", "err", err)
		return
	}
	if !ok {
		return
	}

	var rec model.GraphRecord
	if err = json.Unmarshal(data, &rec); err != nil {
		g.logger.Warn("social graph record decode failed, starting empty", "err", err)
		return
	}

	g.following = toSet(rec.Following)
	g.followers = toSet(rec.Followers)
	g.mutual = toSet(rec.Mutual)
	g.followingCount = rec.FollowingCount
	g.followersCount = rec.FollowersCount
	if rec.Timestamp > 0 {
		g.lastRefreshedAt = time.Unix(rec.Timestamp, 0)
	}
}

func toSet(ids []model.UserID) map[model.UserID]struct{} {
	set := make(map[model.UserID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func toList(set map[model.UserID]struct{}) []model.UserID {
	list := make([]model.UserID, 0, len(set))
	for id := range set {
		list = append(list, id)
	}
	return list
}

func intersect(a, b map[model.UserID]struct{}) map[model.UserID]struct{} {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(map[model.UserID]struct{})
	for id := range a {
		if _, ok := b[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}
