package http

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-cms-graph/internal/graphclient"
	"github.com/goliatone/go-cms-graph/internal/locales"
	"github.com/goliatone/go-cms-graph/internal/logging"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

// DefaultBasePath is where routes mount when WithBasePath is not given.
const DefaultBasePath = "/admin/api"

// Gateway is the subset of graphclient.Client the admin routes call.
type Gateway interface {
	UploadSynonyms(ctx context.Context, text string, opts graphclient.SynonymOptions) graphclient.SynonymResult
	SearchContent(ctx context.Context, query string, variables map[string]any) graphclient.SearchResult
	ListPinnedCollections(ctx context.Context) graphclient.PinnedResult[[]graphclient.PinnedCollection]
	CreatePinnedCollection(ctx context.Context, collection graphclient.PinnedCollection) graphclient.PinnedResult[graphclient.PinnedCollection]
	DeletePinnedCollection(ctx context.Context, collectionID string) graphclient.PinnedResult[struct{}]
	ListPinnedItems(ctx context.Context, collectionID string) graphclient.PinnedResult[[]graphclient.PinnedItem]
	AddPinnedItem(ctx context.Context, collectionID string, item graphclient.PinnedItem) graphclient.PinnedResult[graphclient.PinnedItem]
	DeletePinnedItem(ctx context.Context, collectionID, itemID string) graphclient.PinnedResult[struct{}]
}

var _ Gateway = (*graphclient.Client)(nil)

// AdminAPI registers the admin JSON endpoints.
type AdminAPI struct {
	basePath  string
	gateway   Gateway
	fallbacks *locales.FallbackTable
	token     string
	logger    interfaces.Logger
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: DefaultBasePath,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides DefaultBasePath.
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

// WithGateway wires the graph client. Without it gateway routes answer 503.
func WithGateway(gateway Gateway) AdminOption {
	return func(api *AdminAPI) {
		api.gateway = gateway
	}
}

// WithFallbackTable wires the locale fallback table.
func WithFallbackTable(table *locales.FallbackTable) AdminOption {
	return func(api *AdminAPI) {
		api.fallbacks = table
	}
}

// WithAdminToken requires "Authorization: Bearer <token>" on every route.
// A blank token disables the check.
func WithAdminToken(token string) AdminOption {
	return func(api *AdminAPI) {
		api.token = strings.TrimSpace(token)
	}
}

func WithLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		api.logger = logging.EnsureLogger(logger)
	}
}

// Register attaches the admin endpoints to mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")
	api.registerSynonymRoutes(mux, base)
	api.registerSearchRoutes(mux, base)
	api.registerPinnedRoutes(mux, base)
	api.registerLocaleRoutes(mux, base)
	return nil
}

func (api *AdminAPI) handle(mux *http.ServeMux, pattern string, handler http.HandlerFunc) {
	mux.Handle(pattern, api.authorize(handler))
}

// authorize enforces the bearer token when one is configured.
func (api *AdminAPI) authorize(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.token != "" {
			presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(presented)), []byte(api.token)) != 1 {
				api.logger.Warn("graph.admin.unauthorized", "path", r.URL.Path)
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Message: "missing or invalid admin token"})
				return
			}
		}
		next(w, r)
	})
}
