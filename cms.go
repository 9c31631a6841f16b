package cmsgraph

import (
	"context"
	"errors"
	"net/http"

	graphcmd "github.com/goliatone/go-cms-graph/internal/commands/graph"
	"github.com/goliatone/go-cms-graph/internal/di"
	"github.com/goliatone/go-cms-graph/internal/graphclient"
	adminhttp "github.com/goliatone/go-cms-graph/internal/http"
	"github.com/goliatone/go-cms-graph/internal/locales"
	"github.com/goliatone/go-cms-graph/internal/search"
	"github.com/goliatone/go-cms-graph/internal/signing"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

var errNilModule = errors.New("cmsgraph: module is nil")

type (
	// Client signs and sends gateway requests.
	Client = graphclient.Client
	// Signer computes epi-hmac headers.
	Signer           = signing.Signer
	RequestOptions   = graphclient.RequestOptions
	QueryParam       = graphclient.QueryParam
	SynonymOptions   = graphclient.SynonymOptions
	SynonymResult    = graphclient.SynonymResult
	SearchResult     = graphclient.SearchResult
	SearchItem       = search.Item
	PinnedItem       = graphclient.PinnedItem
	PinnedCollection = graphclient.PinnedCollection
	AdminAPI         = adminhttp.AdminAPI

	UploadSynonymsCommand = graphcmd.UploadSynonymsCommand
	SearchContentCommand  = graphcmd.SearchContentCommand
)

// Option customises module construction.
type Option = di.Option

var (
	WithLoggerProvider   = di.WithLoggerProvider
	WithHTTPClient       = di.WithHTTPClient
	WithBunDB            = di.WithBunDB
	WithCache            = di.WithCache
	WithLocaleRepository = di.WithLocaleRepository
	WithSignerOptions    = di.WithSignerOptions
)

// Module is the top level façade over the gateway client, locale resolution
// and the admin adapters.
type Module struct {
	container *di.Container
}

// New builds a module from cfg. Missing or malformed credentials fail here.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Close releases storage opened by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Container exposes the underlying service container.
func (m *Module) Container() *di.Container {
	if m == nil {
		return nil
	}
	return m.container
}

// Client returns the signed gateway client.
func (m *Module) Client() *Client {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Client()
}

// Signer returns the request signer.
func (m *Module) Signer() *Signer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Signer()
}

// Logger returns a logger from the configured provider.
func (m *Module) Logger(name string) interfaces.Logger {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LoggerProvider().GetLogger(name)
}

// FallbackTable returns the table loaded at construction.
func (m *Module) FallbackTable() *locales.FallbackTable {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.FallbackTable()
}

// RegisterAdmin mounts the admin JSON routes on mux.
func (m *Module) RegisterAdmin(mux *http.ServeMux) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	return m.container.AdminAPI().Register(mux)
}

// UploadSynonyms runs UploadSynonymsCommand through the command handler.
func (m *Module) UploadSynonyms(ctx context.Context, cmd UploadSynonymsCommand) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	return m.container.UploadSynonymsHandler().Execute(ctx, cmd)
}

// SearchContent runs SearchContentCommand through the command handler.
func (m *Module) SearchContent(ctx context.Context, cmd SearchContentCommand) error {
	if m == nil || m.container == nil {
		return errNilModule
	}
	return m.container.SearchContentHandler().Execute(ctx, cmd)
}
