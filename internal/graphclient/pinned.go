package graphclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// PinnedCollectionsPath is the root of the pinned results API.
const PinnedCollectionsPath = "/api/pinned/collections"

// PinnedCollection groups pinned items.
type PinnedCollection struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

// PinnedItem pins TargetKey to the top of results for any of Phrases.
type PinnedItem struct {
	ID        string `json:"id,omitempty"`
	Phrases   string `json:"phrases"`
	TargetKey string `json:"targetKey"`
	Language  string `json:"language"`
	Priority  int    `json:"priority"`
	IsActive  bool   `json:"isActive"`
}

// PinnedResult reports the outcome of a pinned results call. Status is the
// HTTP status returned by the gateway, zero when the request never completed.
type PinnedResult[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Status  int    `json:"status"`
}

// ListPinnedCollections returns every pinned result collection.
func (c *Client) ListPinnedCollections(ctx context.Context) PinnedResult[[]PinnedCollection] {
	return pinnedCall[[]PinnedCollection](ctx, c, http.MethodGet, PinnedCollectionsPath, nil)
}

// CreatePinnedCollection creates a collection; the gateway assigns its ID.
func (c *Client) CreatePinnedCollection(ctx context.Context, collection PinnedCollection) PinnedResult[PinnedCollection] {
	return pinnedCall[PinnedCollection](ctx, c, http.MethodPost, PinnedCollectionsPath, collection)
}

// DeletePinnedCollection removes a collection and its items.
func (c *Client) DeletePinnedCollection(ctx context.Context, collectionID string) PinnedResult[struct{}] {
	return pinnedCall[struct{}](ctx, c, http.MethodDelete, pinnedPath(collectionID), nil)
}

// ListPinnedItems returns the items pinned in a collection.
func (c *Client) ListPinnedItems(ctx context.Context, collectionID string) PinnedResult[[]PinnedItem] {
	return pinnedCall[[]PinnedItem](ctx, c, http.MethodGet, pinnedPath(collectionID, "items"), nil)
}

// AddPinnedItem pins item in the collection.
func (c *Client) AddPinnedItem(ctx context.Context, collectionID string, item PinnedItem) PinnedResult[PinnedItem] {
	return pinnedCall[PinnedItem](ctx, c, http.MethodPost, pinnedPath(collectionID, "items"), item)
}

// DeletePinnedItem unpins one item.
func (c *Client) DeletePinnedItem(ctx context.Context, collectionID, itemID string) PinnedResult[struct{}] {
	return pinnedCall[struct{}](ctx, c, http.MethodDelete, pinnedPath(collectionID, "items", itemID), nil)
}

func pinnedPath(segments ...string) string {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, PinnedCollectionsPath)
	for _, segment := range segments {
		escaped = append(escaped, url.PathEscape(strings.TrimSpace(segment)))
	}
	return strings.Join(escaped, "/")
}

// pinnedCall sends payload as JSON (when non-nil) and decodes a 2xx body into
// T. Empty success bodies leave Data at its zero value.
func pinnedCall[T any](ctx context.Context, c *Client, method, path string, payload any) PinnedResult[T] {
	var result PinnedResult[T]

	opts := RequestOptions{
		Method:  method,
		Headers: map[string]string{"Content-Type": contentTypeJSON, "Accept": contentTypeJSON},
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			result.Error = errorMessage(err)
			return result
		}
		opts.Body = body
	}

	resp, err := c.Request(ctx, path, opts)
	if err != nil {
		result.Error = errorMessage(err)
		return result
	}
	result.Status = resp.StatusCode
	body, err := readBody(resp)
	if err != nil {
		result.Error = errorMessage(err)
		return result
	}
	if !isSuccess(resp.StatusCode) {
		c.logger.Warn("graph.pinned.rejected", "method", method, "status", resp.StatusCode)
		result.Error = remoteError(resp.StatusCode, body)
		return result
	}

	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &result.Data); err != nil {
			result.Error = errorMessage(goerrors.Wrap(err, goerrors.CategoryExternal, "graph response invalid").
				WithTextCode(textCodeResponseInvalid))
			return result
		}
	}
	result.Success = true
	return result
}
