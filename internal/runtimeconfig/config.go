package runtimeconfig

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultGatewayBaseURL is the public content graph gateway.
const DefaultGatewayBaseURL = "https://cg.optimizely.com"

var ErrGraphAppKeyRequired = errors.New("graph config: app key is required")
var ErrGraphSecretRequired = errors.New("graph config: secret is required")
var ErrGraphSecretInvalid = errors.New("graph config: secret must be valid base64")
var ErrGraphGatewayInvalid = errors.New("graph config: gateway base url is invalid")
var ErrDefaultLocaleRequired = errors.New("graph config: default locale is required")
var ErrStorageProviderUnknown = errors.New("graph config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("graph config: storage dsn is required for sql providers")
var ErrLoggingProviderUnknown = errors.New("graph config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("graph config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("graph config: logging format is invalid")
var ErrHTTPTimeoutInvalid = errors.New("graph config: http timeout must be zero or positive")

// Config aggregates everything the graph module needs at construction time.
type Config struct {
	Graph   GraphConfig
	I18N    I18NConfig
	HTTP    HTTPConfig
	Storage StorageConfig
	Cache   CacheConfig
	Logging LoggingConfig
	Admin   AdminConfig
}

// GraphConfig holds the gateway location and HMAC credentials. Build it once
// and treat it as immutable.
type GraphConfig struct {
	GatewayBaseURL string
	AppKey         string
	Secret         string
}

// I18NConfig describes the locales served and their fallback table.
// Fallbacks maps a locale to its single fallback locale.
type I18NConfig struct {
	DefaultLocale     string
	Locales           []string
	Fallbacks         map[string]string
	ValidateFallbacks bool
}

// HTTPConfig configures the outbound client.
type HTTPConfig struct {
	Timeout time.Duration
}

// StorageConfig selects where locale records live: memory, sqlite or postgres.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig toggles the read-through cache around locale storage.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// LoggingConfig selects the logger provider.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
}

// AdminConfig configures the admin HTTP adapters.
type AdminConfig struct {
	BasePath string
	Token    string
}

// DefaultConfig returns defaults for everything except credentials.
func DefaultConfig() Config {
	return Config{
		Graph: GraphConfig{
			GatewayBaseURL: DefaultGatewayBaseURL,
		},
		I18N: I18NConfig{
			DefaultLocale:     "en",
			Locales:           []string{"en"},
			Fallbacks:         map[string]string{},
			ValidateFallbacks: true,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		Admin: AdminConfig{
			BasePath: "/admin/api",
		},
	}
}

// Validate reports the first configuration problem found.
func (cfg Config) Validate() error {
	if err := cfg.Graph.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.I18N.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if cfg.HTTP.Timeout < 0 {
		return ErrHTTPTimeoutInvalid
	}
	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, provider)
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	provider := normalize(cfg.Logging.Provider)
	switch provider {
	case "", "console", "gologger":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := normalize(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := normalize(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// Validate checks credentials. Missing or malformed credentials are fatal for
// every code path that signs requests, so callers should stop on error.
func (g GraphConfig) Validate() error {
	if strings.TrimSpace(g.AppKey) == "" {
		return ErrGraphAppKeyRequired
	}
	if strings.TrimSpace(g.Secret) == "" {
		return ErrGraphSecretRequired
	}
	if _, err := g.DecodedSecret(); err != nil {
		return err
	}
	base := strings.TrimSpace(g.GatewayBaseURL)
	if base == "" {
		return nil
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%w: %q", ErrGraphGatewayInvalid, base)
	}
	return nil
}

// DecodedSecret returns the binary HMAC key.
func (g GraphConfig) DecodedSecret() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(g.Secret))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGraphSecretInvalid, err)
	}
	return key, nil
}

// Gateway returns the configured base URL or the public default.
func (g GraphConfig) Gateway() string {
	if base := strings.TrimSpace(g.GatewayBaseURL); base != "" {
		return base
	}
	return DefaultGatewayBaseURL
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch format {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
