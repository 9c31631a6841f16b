package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-cms-graph/pkg/interfaces"
)

type recordingLogger struct {
	entries *[]string
	fields  map[string]any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]string{}}
}

func (l *recordingLogger) record(msg string) { *l.entries = append(*l.entries, msg) }

func (l *recordingLogger) Trace(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.record(msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.record(msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	return &recordingLogger{entries: l.entries, fields: fields}
}

func TestDefaultTelemetryAttachesFieldsToProvidedLogger(t *testing.T) {
	logger := newRecordingLogger()
	var scoped *recordingLogger
	telemetry := DefaultTelemetry[testMessage](&fieldCapture{recordingLogger: logger, capture: &scoped})

	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Fields:   map[string]any{"slot": "1"},
		Duration: 5 * time.Millisecond,
		Status:   TelemetryStatusSuccess,
	})
	telemetry(context.Background(), testMessage{}, TelemetryInfo{
		Duration: time.Millisecond,
		Error:    errors.New("boom"),
		Status:   TelemetryStatusFailed,
	})

	if scoped == nil || scoped.fields["slot"] != "1" {
		t.Fatalf("expected fields on the scoped logger, got %+v", scoped)
	}
	want := []string{"command.execute.success", "command.execute.failed"}
	if len(*logger.entries) != len(want) {
		t.Fatalf("expected %v, got %v", want, *logger.entries)
	}
	for i, msg := range want {
		if (*logger.entries)[i] != msg {
			t.Fatalf("entry %d: expected %s, got %s", i, msg, (*logger.entries)[i])
		}
	}
}

func TestDefaultTelemetryFallsBackToExecutionLogger(t *testing.T) {
	logger := newRecordingLogger()
	DefaultTelemetry[testMessage](nil)(context.Background(), testMessage{}, TelemetryInfo{
		Status: TelemetryStatusContextError,
		Error:  context.Canceled,
		Logger: logger,
	})
	if len(*logger.entries) != 1 || (*logger.entries)[0] != "command.execute.context_error" {
		t.Fatalf("unexpected entries %v", *logger.entries)
	}
}

type fieldCapture struct {
	*recordingLogger
	capture **recordingLogger
}

func (f *fieldCapture) WithFields(fields map[string]any) interfaces.Logger {
	scoped := &recordingLogger{entries: f.entries, fields: fields}
	*f.capture = scoped
	return scoped
}
