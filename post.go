package feedcache

import (
	"net/http"

	"github.com/stridelab/go-feed-cache/internal/remote"
	"github.com/stridelab/go-feed-cache/model"
)

// Aliases so embedding applications implement collaborators and exchange
// cached values without reaching into internal packages.
type (
	UserID      = model.UserID
	Post        = model.Post
	Interaction = model.Interaction
	Profile     = model.Profile

	// ProfileSource is the remote profile service the social graph cache
	// reconciles against.
	ProfileSource = remote.Source
)

// ErrTransport marks network/auth failures reaching the profile service.
var ErrTransport = remote.ErrTransport

// NewHTTPSource returns a ProfileSource speaking the JSON profile API at
// base. A nil client falls back to http.DefaultClient.
func NewHTTPSource(base string, client *http.Client) ProfileSource {
	return remote.NewHTTPClient(base, client)
}
