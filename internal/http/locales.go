package http

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-graph/internal/locales"
)

type fallbackResponse struct {
	Locale        string   `json:"locale"`
	BackendLocale string   `json:"backend_locale"`
	Chain         []string `json:"chain"`
}

func (api *AdminAPI) registerLocaleRoutes(mux *http.ServeMux, base string) {
	api.handle(mux, "GET "+joinPath(base, "locales")+"/{locale}/fallbacks", api.handleLocaleFallbacks)
}

func (api *AdminAPI) handleLocaleFallbacks(w http.ResponseWriter, r *http.Request) {
	if api.fallbacks == nil {
		writeUnavailable(w)
		return
	}
	locale := locales.Canonical(r.PathValue("locale"))
	if locale == "" || strings.ContainsAny(locale, " /") {
		api.writeError(w, locales.ErrLocaleRequired)
		return
	}
	writeJSON(w, http.StatusOK, fallbackResponse{
		Locale:        locale,
		BackendLocale: locales.ToBackendLocale(locale),
		Chain:         api.fallbacks.Chain(locale),
	})
}
