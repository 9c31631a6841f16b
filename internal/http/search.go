package http

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-cms-graph/internal/graphclient"
	"github.com/goliatone/go-cms-graph/internal/locales"
)

type searchPayload struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
	Locale    string         `json:"locale,omitempty"`
}

func (p searchPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Query, validation.Required),
	)
}

func (api *AdminAPI) registerSearchRoutes(mux *http.ServeMux, base string) {
	api.handle(mux, "POST "+joinPath(base, "search"), api.handleSearch)
}

func (api *AdminAPI) handleSearch(w http.ResponseWriter, r *http.Request) {
	if api.gateway == nil {
		writeUnavailable(w)
		return
	}
	var payload searchPayload
	if err := decodeJSON(r, &payload); err != nil {
		api.writeError(w, err)
		return
	}
	payload.Query = strings.TrimSpace(payload.Query)
	if err := payload.Validate(); err != nil {
		api.writeError(w, err)
		return
	}

	variables := payload.Variables
	if variables == nil {
		variables = map[string]any{}
	}
	if locale := strings.TrimSpace(payload.Locale); locale != "" {
		if _, ok := variables["locale"]; !ok {
			variables["locale"] = locales.ToBackendLocale(locale)
		}
	}

	result := api.gateway.SearchContent(r.Context(), payload.Query, variables)
	if result.Error != "" {
		api.logger.Error("graph.admin.search_failed", "error", result.Error)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "upstream_error", Message: result.Error})
		return
	}
	writeJSON(w, http.StatusOK, graphclient.SearchResult{Items: result.Items})
}
