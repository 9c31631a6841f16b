package graphclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-graph/internal/search"
)

// ContentPath is the GraphQL endpoint for content queries.
const ContentPath = "/content/v2"

// SearchResult holds normalized items or a message explaining why there are
// none. Items is never nil.
type SearchResult struct {
	Items []search.Item `json:"items"`
	Error string        `json:"error,omitempty"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// SearchContent runs a GraphQL content query and normalizes the result list.
// Items without an identifier are dropped.
func (c *Client) SearchContent(ctx context.Context, query string, variables map[string]any) SearchResult {
	if variables == nil {
		variables = map[string]any{}
	}
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return failedSearch(goerrors.Wrap(err, goerrors.CategoryValidation, "graph query variables invalid").
			WithTextCode(textCodeRequestInvalid))
	}

	resp, err := c.Request(ctx, ContentPath, RequestOptions{
		Method:  http.MethodPost,
		Body:    payload,
		Headers: map[string]string{"Content-Type": contentTypeJSON},
	})
	if err != nil {
		return failedSearch(err)
	}
	body, err := readBody(resp)
	if err != nil {
		return failedSearch(err)
	}
	if !isSuccess(resp.StatusCode) {
		c.logger.Warn("graph.search.rejected", "status", resp.StatusCode)
		return SearchResult{Items: []search.Item{}, Error: remoteError(resp.StatusCode, body)}
	}

	decoded, err := search.DecodeResponse(bytes.NewReader(body))
	if err != nil {
		return failedSearch(goerrors.Wrap(err, goerrors.CategoryExternal, "graph response invalid").
			WithTextCode(textCodeResponseInvalid))
	}
	if decoded.HasErrors() {
		c.logger.Warn("graph.search.errors", "count", len(decoded.Errors))
		return SearchResult{Items: []search.Item{}, Error: decoded.ErrorMessage()}
	}
	items, err := decoded.Items()
	if err != nil {
		return failedSearch(goerrors.Wrap(err, goerrors.CategoryExternal, "graph response invalid").
			WithTextCode(textCodeResponseInvalid))
	}

	c.logger.Debug("graph.search.completed", "items", len(items))
	return SearchResult{Items: items}
}

func failedSearch(err error) SearchResult {
	return SearchResult{Items: []search.Item{}, Error: errorMessage(err)}
}
