package http

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-graph/internal/graphclient"
)

type uploadSynonymsPayload struct {
	Synonyms        *string `json:"synonyms"`
	Slot            string  `json:"slot,omitempty"`
	LanguageRouting string  `json:"language_routing,omitempty"`
}

// Validate requires the synonyms key (an empty string clears the slot) and a
// slot of 1 or 2.
func (p uploadSynonymsPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Synonyms, validation.NotNil),
		validation.Field(&p.Slot, validation.In(graphclient.SynonymSlotPrimary, graphclient.SynonymSlotSecondary)),
	)
}

func (api *AdminAPI) registerSynonymRoutes(mux *http.ServeMux, base string) {
	api.handle(mux, "PUT "+joinPath(base, "synonyms"), api.handleUploadSynonyms)
}

func (api *AdminAPI) handleUploadSynonyms(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	var payload uploadSynonymsPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.writeError(w, err)
		return
	}
	if err := payload.Validate(); err != nil {
		api.writeError(w, err)
		return
	}

	result := api.gateway.UploadSynonyms(r.Context(), *payload.Synonyms, graphclient.SynonymOptions{
		Slot:            payload.Slot,
		LanguageRouting: payload.LanguageRouting,
	})
	if !result.Success {
		api.logger.Error("graph.admin.synonyms_failed", "error", result.Error)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "upstream_error", Message: result.Error})
		return
	}
	writeJSON(w, http.StatusOK, result)
}
