package tests

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	feedcache "github.com/stridelab/go-feed-cache"
	"github.com/stridelab/go-feed-cache/model"
	"github.com/stridelab/go-feed-cache/tests/help"
)

type stubSource struct {
	mu        sync.Mutex
	profile   model.Profile
	following []model.UserID
	followers []model.UserID
	fail      bool
}

func (s *stubSource) FetchProfile(context.Context, model.UserID, model.UserID) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return model.Profile{}, errors.New("profile service down")
	}
	return s.profile, nil
}

func (s *stubSource) FetchFollowing(context.Context, model.UserID, model.UserID, int) ([]model.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("profile service down")
	}
	return append([]model.UserID(nil), s.following...), nil
}

func (s *stubSource) FetchFollowers(context.Context, model.UserID, model.UserID, int) ([]model.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, errors.New("profile service down")
	}
	return append([]model.UserID(nil), s.followers...), nil
}

func TestFeedCache_EndToEnd(t *testing.T) {
	src := &stubSource{
		profile:   model.Profile{FollowingCount: 2, FollowerCount: 2},
		following: []model.UserID{"ann", "bob"},
		followers: []model.UserID{"bob", "cid"},
	}
	path := filepath.Join(t.TempDir(), "cache.db")

	cache, err := feedcache.New(context.Background(), help.Cfg(path), help.Logger(), src, "viewer")
	require.NoError(t, err)

	// Social graph: refresh, queries, optimistic mutation.
	require.Equal(t, 2, cache.FollowingCount(context.Background(), "viewer"))
	require.True(t, cache.IsFollowing("ann"))
	require.True(t, cache.IsMutual("bob"))
	require.False(t, cache.IsMutual("ann"))
	require.ElementsMatch(t, []model.UserID{"ann", "bob"}, cache.FilterFollowing([]model.UserID{"ann", "bob", "zed"}))

	cache.AddFollowing("cid")
	require.True(t, cache.IsMutual("cid"))
	require.Equal(t, 3, cache.FollowingCount(context.Background(), "viewer"))

	// Feed: save, read through both tiers, interactions.
	var posts []model.Post
	for i := 0; i < 60; i++ {
		posts = append(posts, model.Post{ID: fmt.Sprintf("p%d", i), AuthorID: "ann"})
	}
	cache.SavePosts(posts)

	got, ok := cache.LoadPosts()
	require.True(t, ok)
	require.Len(t, got, 60)

	p, ok := cache.GetPost("p59")
	require.True(t, ok)
	require.Equal(t, model.UserID("ann"), p.AuthorID)

	_, ok = cache.GetPost("p0") // evicted from memory, served from the snapshot
	require.True(t, ok)

	cache.SaveInteractions(map[string]model.Interaction{"p1": {Liked: true}})
	require.True(t, cache.LoadInteractions()["p1"].Liked)

	require.NoError(t, cache.Close())
}

func TestFeedCache_StateSurvivesRestart(t *testing.T) {
	src := &stubSource{
		profile:   model.Profile{FollowingCount: 1, FollowerCount: 1},
		following: []model.UserID{"ann"},
		followers: []model.UserID{"ann"},
	}
	path := filepath.Join(t.TempDir(), "cache.db")

	cache, err := feedcache.New(context.Background(), help.Cfg(path), help.Logger(), src, "viewer")
	require.NoError(t, err)
	require.NoError(t, cache.Refresh(context.Background(), "viewer"))
	cache.SavePosts([]model.Post{{ID: "p1", Caption: "evening ride"}})
	require.NoError(t, cache.Close())

	// Remote goes down; the reopened cache still answers from durable state.
	src.mu.Lock()
	src.fail = true
	src.mu.Unlock()

	reopened, err := feedcache.New(context.Background(), help.Cfg(path), help.Logger(), src, "viewer")
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	require.True(t, reopened.IsFollowing("ann"))
	require.True(t, reopened.IsMutual("ann"))

	got, ok := reopened.LoadPosts()
	require.True(t, ok)
	require.Equal(t, "evening ride", got[0].Caption)

	p, ok := reopened.GetPost("p1") // memory tier is empty after restart
	require.True(t, ok)
	require.Equal(t, "p1", p.ID)
}

func TestFeedCache_LogoutClearsEverything(t *testing.T) {
	src := &stubSource{
		profile:   model.Profile{FollowingCount: 1, FollowerCount: 0},
		following: []model.UserID{"ann"},
	}
	path := filepath.Join(t.TempDir(), "cache.db")

	cache, err := feedcache.New(context.Background(), help.Cfg(path), help.Logger(), src, "viewer")
	require.NoError(t, err)
	require.NoError(t, cache.Refresh(context.Background(), "viewer"))
	cache.SavePosts([]model.Post{{ID: "p1"}})

	cache.Clear()
	cache.ClearCache()
	require.NoError(t, cache.Close())

	reopened, err := feedcache.New(context.Background(), help.Cfg(path), help.Logger(), src, "viewer")
	require.NoError(t, err)
	defer func() { require.NoError(t, reopened.Close()) }()

	require.False(t, reopened.IsFollowing("ann"))
	_, ok := reopened.LoadPosts()
	require.False(t, ok)
}
