package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "graph.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ClientLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != clientModule {
		t.Fatalf("expected module %s, got %v", clientModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != clientModule {
		t.Fatalf("expected module field %s, got %v", clientModule, rec.fields)
	}
}

func TestWithRequestContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	WithRequestContext(rec, "put", "/resources/synonyms")
	WithRequestContext(rec, " ", "")

	if len(rec.fields) != 1 {
		t.Fatalf("expected a single annotation, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldMethod] != "PUT" {
		t.Fatalf("expected upper-cased method, got %v", rec.fields[0][fieldMethod])
	}
	if rec.fields[0][fieldEndpoint] != "/resources/synonyms" {
		t.Fatalf("unexpected endpoint %v", rec.fields[0][fieldEndpoint])
	}
}

func TestContextWithFieldsMerges(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"request_id": "r1"})
	ctx = ContextWithFields(ctx, map[string]any{"locale": "fr-CA"})

	fields := ContextFields(ctx)
	if fields["request_id"] != "r1" || fields["locale"] != "fr-CA" {
		t.Fatalf("expected merged fields, got %v", fields)
	}

	fields["request_id"] = "mutated"
	if ContextFields(ctx)["request_id"] != "r1" {
		t.Fatalf("context fields must be copied on read")
	}
}
