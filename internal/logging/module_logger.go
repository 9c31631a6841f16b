package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

const (
	rootModule     = "graph"
	clientModule   = "graph.client"
	signingModule  = "graph.signing"
	localesModule  = "graph.locales"
	httpModule     = "graph.http"
	commandsModule = "graph.commands"
)

const (
	fieldMethod   = "method"
	fieldEndpoint = "endpoint"
	fieldLocale   = "locale"
)

// ModuleLogger returns a logger scoped to module, tagged with a "module" field.
// A nil provider yields a no-op logger.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ClientLogger returns the logger used by the graph request dispatcher.
func ClientLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, clientModule)
}

// SigningLogger returns the logger used by the request signer.
func SigningLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, signingModule)
}

// LocalesLogger returns the logger used by locale resolution and storage.
func LocalesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, localesModule)
}

// HTTPLogger returns the logger used by the admin HTTP adapters.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger used by command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithFields attaches fields when the logger supports FieldsLogger.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}
	return logger
}

// WithRequestContext annotates a logger with the outbound method and endpoint.
// Empty values are skipped.
func WithRequestContext(logger interfaces.Logger, method, endpoint string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(method); trimmed != "" {
		fields[fieldMethod] = strings.ToUpper(trimmed)
	}
	if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
		fields[fieldEndpoint] = trimmed
	}
	return WithFields(logger, fields)
}

// WithLocale annotates a logger with a locale code.
func WithLocale(logger interfaces.Logger, locale string) interfaces.Logger {
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		return WithFields(logger, map[string]any{fieldLocale: trimmed})
	}
	return logger
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}

type contextKey string

const contextFieldsKey contextKey = "graph.logging.fields"

// ContextWithFields stores fields on ctx, merged over any already present.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	merged := ContextFields(ctx)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields returns a copy of the fields stored on ctx.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}
