package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoResultList is returned when the data block holds neither result key.
var ErrNoResultList = errors.New("search: response has no Content or _Content items")

// resultKeys are the data keys the gateway uses for content queries; which
// one appears depends on the schema the query was written against.
var resultKeys = []string{"Content", "_Content"}

// GraphQLError is one entry of a GraphQL errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Response is the GraphQL envelope returned by the gateway.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// DecodeResponse reads a GraphQL envelope. Numbers are kept as json.Number.
func DecodeResponse(r io.Reader) (Response, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	var resp Response
	if err := decoder.Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("search: decode response: %w", err)
	}
	return resp, nil
}

// HasErrors reports whether the envelope carries GraphQL errors.
func (r Response) HasErrors() bool {
	return len(r.Errors) > 0
}

// ErrorMessage joins GraphQL error messages into one readable string.
func (r Response) ErrorMessage() string {
	if len(r.Errors) == 0 {
		return ""
	}
	messages := make([]string, 0, len(r.Errors))
	for _, gqlErr := range r.Errors {
		if msg := strings.TrimSpace(gqlErr.Message); msg != "" {
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return "graphql request failed"
	}
	return strings.Join(messages, "; ")
}

// RawItems returns the item list under data.Content.items or
// data._Content.items.
func (r Response) RawItems() ([]map[string]any, error) {
	for _, key := range resultKeys {
		block, ok := r.Data[key].(map[string]any)
		if !ok {
			continue
		}
		list, ok := block["items"].([]any)
		if !ok {
			if block["items"] == nil {
				return []map[string]any{}, nil
			}
			return nil, fmt.Errorf("search: %s.items is %T, want list", key, block["items"])
		}
		items := make([]map[string]any, 0, len(list))
		for _, entry := range list {
			if item, ok := entry.(map[string]any); ok {
				items = append(items, item)
			}
		}
		return items, nil
	}
	return nil, ErrNoResultList
}

// Items decodes, validates and normalizes in one step.
func (r Response) Items() ([]Item, error) {
	raw, err := r.RawItems()
	if err != nil {
		return nil, err
	}
	return NormalizeAll(raw), nil
}
