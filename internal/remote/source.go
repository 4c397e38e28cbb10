// Package remote defines the narrow interface to the profile service the
// social graph cache reconciles against, plus the supplied transports.
package remote

import (
	"context"
	"errors"

	"github.com/stridelab/go-feed-cache/model"
)

// ErrTransport wraps any network or auth failure reaching the profile
// service. A failed step aborts the enclosing refresh step; prior local
// state is retained.
var ErrTransport = errors.New("remote: transport failure")

// Source is the remote profile service consumed by the social graph cache.
// Implementations must be safe for concurrent use.
type Source interface {
	// FetchProfile returns authoritative relationship counts for userID as
	// seen by viewerID.
	FetchProfile(ctx context.Context, userID, viewerID model.UserID) (model.Profile, error)

	// FetchFollowing returns up to limit identifiers userID follows.
	FetchFollowing(ctx context.Context, userID, viewerID model.UserID, limit int) ([]model.UserID, error)

	// FetchFollowers returns up to limit identifiers following userID.
	FetchFollowers(ctx context.Context, userID, viewerID model.UserID, limit int) ([]model.UserID, error)
}
