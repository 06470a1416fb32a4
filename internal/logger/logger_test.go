package logger

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	l, err := New(false, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug enabled without debug flag")
	}

	l, err = New(true, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !l.Core().Enabled(zap.DebugLevel) {
		t.Error("debug disabled with debug flag")
	}
}

func TestNewWritesToStderr(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stderr
	os.Stderr = w
	l, err := New(true, false)
	os.Stderr = orig
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("deadline monitor started")
	w.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading pipe: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"deadline monitor started"`) {
		t.Errorf("expected log line on stderr, got %q", data)
	}
}

func TestJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	l, err := build(true, false, []string{path})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	l.Info("reminder tier reached", zap.String("tier", "50%"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v: %s", err, data)
	}
	if entry["msg"] != "reminder tier reached" || entry["tier"] != "50%" || entry["level"] != "info" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"  short  ", 10, "short"},
		{"abcdef", 3, "abc..."},
		{"ääää", 2, "ää..."},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := TruncateForLog(tt.in, tt.limit); got != tt.want {
			t.Errorf("TruncateForLog(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}
