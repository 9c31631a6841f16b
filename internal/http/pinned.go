package http

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-graph/internal/graphclient"
)

type pinnedCollectionPayload struct {
	Title    string `json:"title"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (p pinnedCollectionPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.Required, validation.Length(1, 200)),
	)
}

type pinnedItemPayload struct {
	Phrases   string `json:"phrases"`
	TargetKey string `json:"target_key"`
	Language  string `json:"language"`
	Priority  int    `json:"priority,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
}

func (p pinnedItemPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Phrases, validation.Required),
		validation.Field(&p.TargetKey, validation.Required),
		validation.Field(&p.Language, validation.Required),
		validation.Field(&p.Priority, validation.Min(0)),
	)
}

func (api *AdminAPI) registerPinnedRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "pinned/collections")
	api.handle(mux, "GET "+root, api.handleListPinnedCollections)
	api.handle(mux, "POST "+root, api.handleCreatePinnedCollection)
	api.handle(mux, "DELETE "+root+"/{id}", api.handleDeletePinnedCollection)
	api.handle(mux, "GET "+root+"/{id}/items", api.handleListPinnedItems)
	api.handle(mux, "POST "+root+"/{id}/items", api.handleAddPinnedItem)
	api.handle(mux, "DELETE "+root+"/{id}/items/{itemId}", api.handleDeletePinnedItem)
}

func (api *AdminAPI) handleListPinnedCollections(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	result := api.gateway.ListPinnedCollections(r.Context())
	if result.Data == nil {
		result.Data = []graphclient.PinnedCollection{}
	}
	writePinned(api, w, result, http.StatusOK)
}

func (api *AdminAPI) handleCreatePinnedCollection(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	var payload pinnedCollectionPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.writeError(w, err)
		return
	}
	payload.Title = strings.TrimSpace(payload.Title)
	if err := payload.Validate(); err != nil {
		api.writeError(w, err)
		return
	}
	result := api.gateway.CreatePinnedCollection(r.Context(), graphclient.PinnedCollection{
		Title:    payload.Title,
		IsActive: boolOrTrue(payload.IsActive),
	})
	writePinned(api, w, result, http.StatusCreated)
}

func (api *AdminAPI) handleDeletePinnedCollection(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writePinned(api, w, api.gateway.DeletePinnedCollection(r.Context(), id), http.StatusNoContent)
}

func (api *AdminAPI) handleListPinnedItems(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result := api.gateway.ListPinnedItems(r.Context(), id)
	if result.Data == nil {
		result.Data = []graphclient.PinnedItem{}
	}
	writePinned(api, w, result, http.StatusOK)
}

func (api *AdminAPI) handleAddPinnedItem(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var payload pinnedItemPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.writeError(w, err)
		return
	}
	if err := payload.Validate(); err != nil {
		api.writeError(w, err)
		return
	}
	result := api.gateway.AddPinnedItem(r.Context(), id, graphclient.PinnedItem{
		Phrases:   strings.TrimSpace(payload.Phrases),
		TargetKey: strings.TrimSpace(payload.TargetKey),
		Language:  payload.Language,
		Priority:  payload.Priority,
		IsActive:  boolOrTrue(payload.IsActive),
	})
	writePinned(api, w, result, http.StatusCreated)
}

func (api *AdminAPI) handleDeletePinnedItem(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemId")
	if !ok {
		return
	}
	writePinned(api, w, api.gateway.DeletePinnedItem(r.Context(), id, itemID), http.StatusNoContent)
}

// writePinned renders Data with successStatus, or maps the gateway failure.
func writePinned[T any](api *AdminAPI, w http.ResponseWriter, result graphclient.PinnedResult[T], successStatus int) {
	if !result.Success {
		api.logger.Warn("graph.admin.pinned_failed", "status", result.Status, "error", result.Error)
		status, payload := upstreamError(result.Status, result.Error)
		writeJSON(w, status, payload)
		return
	}
	if successStatus == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, successStatus, result.Data)
}

// pathID reads a GUID path value and writes 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	parsed, err := parseUUID(r.PathValue(name))
	if err != nil {
		writeBadRequest(w, name+" must be a valid GUID")
		return "", false
	}
	return parsed.String(), true
}

func boolOrTrue(value *bool) bool {
	if value == nil {
		return true
	}
	return *value
}
