package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("dev", "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", ""} {
		l, err := New(mode, "info")
		if err != nil {
			t.Fatalf("New(%q) returned error: %v", mode, err)
		}
		if !l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel) {
			t.Fatalf("mode %q: expected info to be enabled", mode)
		}
		if l.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("mode %q: expected debug to be disabled", mode)
		}
	}
}

func TestDefaultLevelIsWarn(t *testing.T) {
	l, err := New("dev", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled by default")
	}
}

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("component", "store")

	l.Info("loaded", "rows", 3)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["component"] != "store" {
		t.Fatalf("expected component field, got %#v", ctx)
	}
	if ctx["rows"] != int64(3) {
		t.Fatalf("expected rows=3, got %#v", ctx["rows"])
	}
}
