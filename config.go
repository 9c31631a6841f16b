package cmsgraph

import "github.com/goliatone/go-cms-graph/internal/runtimeconfig"

var (
	ErrGraphAppKeyRequired    = runtimeconfig.ErrGraphAppKeyRequired
	ErrGraphSecretRequired    = runtimeconfig.ErrGraphSecretRequired
	ErrGraphSecretInvalid     = runtimeconfig.ErrGraphSecretInvalid
	ErrGraphGatewayInvalid    = runtimeconfig.ErrGraphGatewayInvalid
	ErrDefaultLocaleRequired  = runtimeconfig.ErrDefaultLocaleRequired
	ErrStorageProviderUnknown = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
	ErrHTTPTimeoutInvalid     = runtimeconfig.ErrHTTPTimeoutInvalid
)

type (
	Config        = runtimeconfig.Config
	GraphConfig   = runtimeconfig.GraphConfig
	I18NConfig    = runtimeconfig.I18NConfig
	HTTPConfig    = runtimeconfig.HTTPConfig
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	AdminConfig   = runtimeconfig.AdminConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// ConfigFromEnv reads GRAPH_* variables once and validates them.
func ConfigFromEnv() (Config, error) {
	return runtimeconfig.FromEnv()
}
