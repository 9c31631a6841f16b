package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cmsgraph "github.com/goliatone/go-cms-graph"
	graphcmd "github.com/goliatone/go-cms-graph/internal/commands/graph"
	"github.com/goliatone/go-cms-graph/internal/logging"
	"github.com/goliatone/go-cms-graph/internal/runtimeconfig"
	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

// Options captures overrides applied on top of the GRAPH_* environment.
type Options struct {
	GatewayBaseURL string
	LogLevel       string
	Environ        map[string]string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the graph module and the services the CLIs drive.
type Module struct {
	Module   *cmsgraph.Module
	Synonyms graphcmd.SynonymUploader
	Searcher graphcmd.ContentSearcher
	Logger   interfaces.Logger
}

// Close releases the wrapped module, if any.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// BuildModule reads configuration from the environment and constructs the
// graph module. CLIs never touch storage, so locales stay in memory.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := loadConfig(opts.Environ)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if trimmed := strings.TrimSpace(opts.GatewayBaseURL); trimmed != "" {
		cfg.Graph.GatewayBaseURL = trimmed
	}
	if trimmed := strings.TrimSpace(opts.LogLevel); trimmed != "" {
		cfg.Logging.Level = trimmed
	}
	cfg.Storage.Provider = "memory"
	cfg.Storage.DSN = ""

	var moduleOpts []cmsgraph.Option
	if opts.LoggerProvider != nil {
		moduleOpts = append(moduleOpts, cmsgraph.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := cmsgraph.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise graph module: %w", err)
	}
	client := module.Client()
	if client == nil {
		_ = module.Close()
		return nil, errors.New("graph client not configured")
	}

	return &Module{
		Module:   module,
		Synonyms: client,
		Searcher: client,
		Logger:   logging.CommandsLogger(module.Container().LoggerProvider()),
	}, nil
}

func loadConfig(environ map[string]string) (runtimeconfig.Config, error) {
	if environ != nil {
		return runtimeconfig.FromEnvironment(environ)
	}
	return runtimeconfig.FromEnv()
}

// ReadInput returns the contents of path, or stdin when path is "-".
func ReadInput(path string, stdin io.Reader) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("input path is required")
	}
	if trimmed == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(trimmed)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
