package di

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	graphcmd "github.com/goliatone/go-cms-graph/internal/commands/graph"
	"github.com/goliatone/go-cms-graph/internal/graphclient"
	adminhttp "github.com/goliatone/go-cms-graph/internal/http"
	"github.com/goliatone/go-cms-graph/internal/locales"
	"github.com/goliatone/go-cms-graph/internal/logging"
	"github.com/goliatone/go-cms-graph/internal/logging/console"
	"github.com/goliatone/go-cms-graph/internal/logging/gologger"
	"github.com/goliatone/go-cms-graph/internal/runtimeconfig"
	"github.com/goliatone/go-cms-graph/internal/signing"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

// Container wires the signer, gateway client, locale storage and adapters
// from one Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	httpClient     *http.Client
	signerOpts     []signing.Option

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	signer     *signing.Signer
	client     *graphclient.Client
	localeRepo locales.Repository
	fallbacks  *locales.FallbackTable
	admin      *adminhttp.AdminAPI

	uploadSynonyms *graphcmd.UploadSynonymsHandler
	searchContent  *graphcmd.SearchContentHandler

	closeOnce sync.Once
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithHTTPClient overrides the outbound client built from Config.HTTP.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Container) {
		c.httpClient = client
	}
}

// WithBunDB supplies an open database, bypassing Config.Storage. The caller
// keeps ownership.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLocaleRepository overrides locale storage entirely.
func WithLocaleRepository(repo locales.Repository) Option {
	return func(c *Container) {
		c.localeRepo = repo
	}
}

// WithSignerOptions passes options (clock, random source) to the signer.
func WithSignerOptions(opts ...signing.Option) Option {
	return func(c *Container) {
		c.signerOpts = append(c.signerOpts, opts...)
	}
}

// NewContainer validates cfg and builds every service. Credential problems
// are returned before any I/O happens.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureGateway(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	ctx := context.Background()
	if err := c.configureLocales(ctx); err != nil {
		c.Close()
		return nil, err
	}
	c.configureCommands()
	c.configureAdmin()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "console":
		c.loggerProvider = console.NewProvider(console.Options{
			Writer:   os.Stderr,
			MinLevel: console.ParseLevel(logCfg.Level),
		})
	default:
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
		})
		if err != nil {
			return fmt.Errorf("di: configure logger: %w", err)
		}
		c.loggerProvider = provider
	}
	return nil
}

func (c *Container) configureGateway() error {
	signerOpts := append([]signing.Option{signing.WithLogger(logging.SigningLogger(c.loggerProvider))}, c.signerOpts...)
	signer, err := signing.NewSigner(c.Config.Graph, signerOpts...)
	if err != nil {
		return err
	}
	c.signer = signer

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.Config.HTTP.Timeout}
	}
	client, err := graphclient.NewClient(c.Config.Graph, signer,
		graphclient.WithHTTPClient(c.httpClient),
		graphclient.WithLogger(logging.ClientLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		if service, err := repocache.NewCacheService(cfg); err == nil {
			c.cacheService = service
		} else {
			logging.LocalesLogger(c.loggerProvider).Warn("graph.cache.disabled", "error", err)
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

// configureLocales opens storage, seeds it from Config.I18N and loads the
// fallback table back from it.
func (c *Container) configureLocales(ctx context.Context) error {
	logger := logging.LocalesLogger(c.loggerProvider)

	if c.localeRepo == nil {
		if c.bunDB == nil {
			db, err := openDB(c.Config.Storage)
			if err != nil {
				return err
			}
			c.bunDB = db
			c.ownsDB = db != nil
		}
		if c.bunDB != nil {
			if err := locales.CreateSchema(ctx, c.bunDB); err != nil {
				return err
			}
			c.localeRepo = locales.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.localeRepo = locales.NewMemoryRepository()
		}
	}

	i18n := c.Config.I18N
	seed := locales.NewFallbackTable(i18n.Fallbacks, locales.WithDefaultLocale(i18n.DefaultLocale))
	if i18n.ValidateFallbacks {
		if err := seed.Validate(); err != nil {
			logger.Error("graph.locales.fallback_cycle", "error", err)
			return err
		}
	}
	if err := locales.SeedFromTable(ctx, c.localeRepo, seed, i18n.Locales); err != nil {
		return err
	}

	table, err := locales.LoadFallbackTable(ctx, c.localeRepo)
	if err != nil {
		return err
	}
	table = locales.NewFallbackTable(table.Entries(), locales.WithDefaultLocale(i18n.DefaultLocale))
	if i18n.ValidateFallbacks {
		if err := table.Validate(); err != nil {
			logger.Error("graph.locales.fallback_cycle", "error", err)
			return err
		}
	}
	c.fallbacks = table
	logger.Debug("graph.locales.loaded", "entries", len(table.Entries()), "default_locale", table.DefaultLocale())
	return nil
}

func (c *Container) configureCommands() {
	logger := logging.CommandsLogger(c.loggerProvider)
	c.uploadSynonyms = graphcmd.NewUploadSynonymsHandler(c.client, logger)
	c.searchContent = graphcmd.NewSearchContentHandler(c.client, logger)
}

func (c *Container) configureAdmin() {
	c.admin = adminhttp.NewAdminAPI(
		adminhttp.WithBasePath(c.Config.Admin.BasePath),
		adminhttp.WithAdminToken(c.Config.Admin.Token),
		adminhttp.WithGateway(c.client),
		adminhttp.WithFallbackTable(c.fallbacks),
		adminhttp.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	)
}

// openDB returns nil for the memory provider.
func openDB(cfg runtimeconfig.StorageConfig) (*bun.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "memory":
		return nil, nil
	case "sqlite":
		sqlDB, err := sql.Open("sqlite3", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite: %w", err)
		}
		db := bun.NewDB(sqlDB, sqlitedialect.New())
		db.SetMaxOpenConns(1)
		return db, nil
	case "postgres":
		sqlDB, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open postgres: %w", err)
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrStorageProviderUnknown, cfg.Provider)
	}
}

// Close releases a database opened by the container. Databases passed in
// with WithBunDB are left open.
func (c *Container) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.ownsDB && c.bunDB != nil {
			err = c.bunDB.Close()
		}
	})
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) Signer() *signing.Signer { return c.signer }

func (c *Container) Client() *graphclient.Client { return c.client }

func (c *Container) LocaleRepository() locales.Repository { return c.localeRepo }

func (c *Container) FallbackTable() *locales.FallbackTable { return c.fallbacks }

func (c *Container) AdminAPI() *adminhttp.AdminAPI { return c.admin }

func (c *Container) UploadSynonymsHandler() *graphcmd.UploadSynonymsHandler {
	return c.uploadSynonyms
}

func (c *Container) SearchContentHandler() *graphcmd.SearchContentHandler {
	return c.searchContent
}
