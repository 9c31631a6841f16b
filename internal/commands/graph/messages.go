package graphcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-graph/internal/graphclient"
)

const (
	uploadSynonymsMessageType = "graph.synonyms.upload"
	searchContentMessageType  = "graph.content.search"
)

// SynonymResultCallback receives the upload outcome, successful or not.
type SynonymResultCallback func(graphclient.SynonymResult)

// SearchResultCallback receives the search outcome, including the empty
// result of a failed search.
type SearchResultCallback func(graphclient.SearchResult)

// UploadSynonymsCommand replaces the synonym list in one slot. Empty Synonyms
// clears the slot.
type UploadSynonymsCommand struct {
	Synonyms        string                `json:"synonyms"`
	Slot            string                `json:"slot,omitempty"`
	LanguageRouting string                `json:"language_routing,omitempty"`
	ResultCallback  SynonymResultCallback `json:"-"`
}

// Type implements command.Message.
func (UploadSynonymsCommand) Type() string { return uploadSynonymsMessageType }

// Validate rejects slots other than 1 and 2.
func (cmd UploadSynonymsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slot, validation.By(func(value any) error {
			if _, err := graphclient.NormalizeSynonymSlot(value.(string)); err != nil {
				return validation.NewError("graph.synonyms.slot_invalid", "slot must be 1 or 2")
			}
			return nil
		})),
		validation.Field(&cmd.LanguageRouting, validation.Length(0, 35)),
	)
}

// SearchContentCommand runs a GraphQL content query. When Locale is set it is
// converted to backend form and passed as the "locale" variable unless the
// caller already supplied one.
type SearchContentCommand struct {
	Query          string               `json:"query"`
	Variables      map[string]any       `json:"variables,omitempty"`
	Locale         string               `json:"locale,omitempty"`
	ResultCallback SearchResultCallback `json:"-"`
}

// Type implements command.Message.
func (SearchContentCommand) Type() string { return searchContentMessageType }

// Validate requires a non-blank query.
func (cmd SearchContentCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Query, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("graph.search.query_required", "query is required")
			}
			return nil
		})),
	)
}
