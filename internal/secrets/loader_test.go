package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadFileTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("writing secret: %v", err)
	}
	got, err := ReadFile("email password", path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != "from-file" {
		t.Errorf("got %q, want from-file", got)
	}
}

func TestReadFileUnset(t *testing.T) {
	got, err := ReadFile("email password", " ")
	if err != nil || got != "" {
		t.Errorf("ReadFile with no path: %q, %v", got, err)
	}
}

func TestReadFileErrors(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatalf("writing secret: %v", err)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty file", empty, "email password file"},
		{"missing file", filepath.Join(t.TempDir(), "missing"), "reading email password from"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFile("email password", tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
