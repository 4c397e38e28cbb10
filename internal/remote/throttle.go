package remote

import (
	"context"

	"go.uber.org/ratelimit"

	"github.com/stridelab/go-feed-cache/model"
)

// Throttle paces outbound calls to the profile service at a fixed rate so a
// burst of stale queries cannot hammer the API. Take blocks; cancellation is
// left to the ctx carried by the underlying call.
type Throttle struct {
	next Source
	l    ratelimit.Limiter
}

func Throttled(next Source, rps int) *Throttle {
	return &Throttle{next: next, l: ratelimit.New(rps)}
}

func (t *Throttle) FetchProfile(ctx context.Context, userID, viewerID model.UserID) (model.Profile, error) {
	t.l.Take()
	return t.next.FetchProfile(ctx, userID, viewerID)
}

func (t *Throttle) FetchFollowing(ctx context.Context, userID, viewerID model.UserID, limit int) ([]model.UserID, error) {
	t.l.Take()
	return t.next.FetchFollowing(ctx, userID, viewerID, limit)
}

func (t *Throttle) FetchFollowers(ctx context.Context, userID, viewerID model.UserID, limit int) ([]model.UserID, error) {
	t.l.Take()
	return t.next.FetchFollowers(ctx, userID, viewerID, limit)
}
