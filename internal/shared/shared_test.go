package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty IDs, got %q and %q", a, b)
	}
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateState()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == "" || a == b {
		t.Errorf("expected unique non-empty state tokens, got %q and %q", a, b)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello")

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected log file to have content")
	}
}

func TestOpenBrowserUnsupportedPlatform(t *testing.T) {
	orig := getRuntime
	getRuntime = func() string { return "plan9" }
	defer func() { getRuntime = orig }()

	if err := OpenBrowser("http://127.0.0.1"); err == nil {
		t.Error("expected error on unsupported platform")
	}
}
