package runtimeconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable read by FromEnv.
const EnvPrefix = "GRAPH_"

type envConfig struct {
	GatewayURL        string            `env:"GATEWAY_URL" envDefault:"https://cg.optimizely.com"`
	AppKey            string            `env:"APP_KEY"`
	Secret            string            `env:"SECRET"`
	DefaultLocale     string            `env:"DEFAULT_LOCALE" envDefault:"en"`
	Locales           []string          `env:"LOCALES" envSeparator:","`
	Fallbacks         map[string]string `env:"LOCALE_FALLBACKS" envSeparator:"," envKeyValSeparator:":"`
	ValidateFallbacks bool              `env:"VALIDATE_FALLBACKS" envDefault:"true"`
	HTTPTimeout       time.Duration     `env:"HTTP_TIMEOUT" envDefault:"30s"`
	StorageProvider   string            `env:"STORAGE_PROVIDER" envDefault:"memory"`
	StorageDSN        string            `env:"STORAGE_DSN"`
	CacheEnabled      bool              `env:"CACHE_ENABLED" envDefault:"true"`
	CacheTTL          time.Duration     `env:"CACHE_TTL" envDefault:"1m"`
	LogProvider       string            `env:"LOG_PROVIDER" envDefault:"gologger"`
	LogLevel          string            `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat         string            `env:"LOG_FORMAT" envDefault:"json"`
	LogAddSource      bool              `env:"LOG_ADD_SOURCE" envDefault:"false"`
	AdminBasePath     string            `env:"ADMIN_BASE_PATH" envDefault:"/admin/api"`
	AdminToken        string            `env:"ADMIN_TOKEN"`
}

// FromEnv reads the process environment once and validates the result.
// Missing credentials are returned as errors; callers treat them as fatal.
func FromEnv() (Config, error) {
	return FromEnvironment(nil)
}

// FromEnvironment is FromEnv over an explicit variable map. A nil map reads
// the process environment.
func FromEnvironment(environ map[string]string) (Config, error) {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}

	var raw envConfig
	if err := env.ParseWithOptions(&raw, opts); err != nil {
		return Config{}, fmt.Errorf("graph config: parse environment: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Graph = GraphConfig{
		GatewayBaseURL: strings.TrimSpace(raw.GatewayURL),
		AppKey:         strings.TrimSpace(raw.AppKey),
		Secret:         strings.TrimSpace(raw.Secret),
	}
	cfg.I18N.DefaultLocale = strings.TrimSpace(raw.DefaultLocale)
	if locales := trimList(raw.Locales); len(locales) > 0 {
		cfg.I18N.Locales = locales
	}
	cfg.I18N.Fallbacks = trimMap(raw.Fallbacks)
	cfg.I18N.ValidateFallbacks = raw.ValidateFallbacks
	cfg.HTTP.Timeout = raw.HTTPTimeout
	cfg.Storage = StorageConfig{Provider: raw.StorageProvider, DSN: raw.StorageDSN}
	cfg.Cache = CacheConfig{Enabled: raw.CacheEnabled, DefaultTTL: raw.CacheTTL}
	cfg.Logging = LoggingConfig{
		Provider:  raw.LogProvider,
		Level:     raw.LogLevel,
		Format:    raw.LogFormat,
		AddSource: raw.LogAddSource,
	}
	cfg.Admin = AdminConfig{BasePath: raw.AdminBasePath, Token: raw.AdminToken}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func trimMap(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}
