package logging_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-formdialog/internal/logging"
	"github.com/goliatone/go-formdialog/pkg/interfaces"
)

type recordingLogger struct {
	fields map[string]any
	name   string
}

func (l *recordingLogger) Trace(string, ...any) {}
func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Fatal(string, ...any) {}

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

func (l *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	return &recordingLogger{fields: fields, name: l.name}
}

type provider struct {
	requested []string
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	p.requested = append(p.requested, name)
	return &recordingLogger{name: name}
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	p := &provider{}
	logger := logging.ModuleLogger(p, logging.DialogModule)

	rec, ok := logger.(*recordingLogger)
	if !ok {
		t.Fatalf("expected provider logger, got %T", logger)
	}
	if rec.fields["module"] != logging.DialogModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
	if len(p.requested) != 1 || p.requested[0] != logging.DialogModule {
		t.Fatalf("unexpected provider requests %v", p.requested)
	}
}

func TestModuleLoggerDefaults(t *testing.T) {
	p := &provider{}
	logging.ModuleLogger(p, "")
	if len(p.requested) != 1 || p.requested[0] != "formdialog" {
		t.Fatalf("expected root module, got %v", p.requested)
	}

	logger := logging.ModuleLogger(nil, logging.HTTPModule)
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.WithContext(context.Background()).Info("ignored")
}

func TestEnsureAndWithFields(t *testing.T) {
	if logging.Ensure(nil) == nil {
		t.Fatal("Ensure(nil) returned nil")
	}
	base := &recordingLogger{}
	if got := logging.Ensure(base); got != base {
		t.Fatal("Ensure replaced a non-nil logger")
	}
	if got := logging.WithFields(base, nil); got != base {
		t.Fatal("WithFields without fields should return the logger")
	}

	fields := map[string]any{"dialog": "article"}
	got := logging.WithFields(base, fields).(*recordingLogger)
	fields["dialog"] = "changed"
	if got.fields["dialog"] != "article" {
		t.Fatalf("expected fields to be copied, got %v", got.fields)
	}
}
