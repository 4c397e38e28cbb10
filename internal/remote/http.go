package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/stridelab/go-feed-cache/model"
)

// HTTPClient talks to a JSON profile API:
//
//	GET {base}/profiles/{userID}?viewer={viewerID}
//	GET {base}/profiles/{userID}/following?viewer={viewerID}&limit={n}
//	GET {base}/profiles/{userID}/followers?viewer={viewerID}&limit={n}
type HTTPClient struct {
	base   string
	client *http.Client
}

func NewHTTPClient(base string, client *http.Client) *HTTPClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPClient{base: base, client: client}
}

func (c *HTTPClient) FetchProfile(ctx context.Context, userID, viewerID model.UserID) (model.Profile, error) {
	var profile model.Profile
	u := fmt.Sprintf("%s/profiles/%s?viewer=%s", c.base, url.PathEscape(string(userID)), url.QueryEscape(string(viewerID)))
	if err := c.getJSON(ctx, u, &profile); err != nil {
		return model.Profile{}, err
	}
	return profile, nil
}

func (c *HTTPClient) FetchFollowing(ctx context.Context, userID, viewerID model.UserID, limit int) ([]model.UserID, error) {
	return c.fetchEdges(ctx, userID, viewerID, limit, "following")
}

func (c *HTTPClient) FetchFollowers(ctx context.Context, userID, viewerID model.UserID, limit int) ([]model.UserID, error) {
	return c.fetchEdges(ctx, userID, viewerID, limit, "followers")
}

type edge struct {
	UserID model.UserID `json:"user_id"`
}

func (c *HTTPClient) fetchEdges(ctx context.Context, userID, viewerID model.UserID, limit int, kind string) ([]model.UserID, error) {
	u := fmt.Sprintf("%s/profiles/%s/%s?viewer=%s&limit=%s",
		c.base, url.PathEscape(string(userID)), kind, url.QueryEscape(string(viewerID)), strconv.Itoa(limit))

	var edges []edge
	if err := c.getJSON(ctx, u, &edges); err != nil {
		return nil, err
	}

	ids := make([]model.UserID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.UserID)
	}
	return ids, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", ErrTransport, resp.StatusCode, u)
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	return nil
}
