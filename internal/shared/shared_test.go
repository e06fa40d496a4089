package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	tu "github.com/judgeLC/VupPlaylist-sub000/internal/testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("hello")

	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("log output missing message: %q", buf.String())
	}
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "store")
	logger.Info("write complete")

	out := buf.String()
	if !strings.Contains(out, "component") || !strings.Contains(out, "store") {
		t.Errorf("child logger missing key-value pair: %q", out)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Info("to disk")

	if !strings.Contains(tu.MustReadFile(t, path), "to disk") {
		t.Error("log file missing the entry")
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	if a == b {
		t.Error("two generated ids collide")
	}
	if len(a) != 36 {
		t.Errorf("expected canonical uuid length, got %d", len(a))
	}
}
