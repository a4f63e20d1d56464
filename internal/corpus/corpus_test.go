package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFileName tests deriving the artifact name from the seed URL.
func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed     string
		expected string
	}{
		{"https://example.com/", "example.com.json"},
		{"https://example.com", "example.com.json"},
		{"https://example.com:8080/", "example.com.json"},
		{"https://example.com/docs", "docs.json"},
		{"https://example.com/docs/guide/", "guide.json"},
		{"https://example.com/docs/index.html", "index.html.json"},
		{"https://example.com/docs?page=2", "docs.json"},
	}

	for _, tt := range tests {
		t.Run(tt.seed, func(t *testing.T) {
			t.Parallel()

			got, err := FileName(tt.seed)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("FileName(%q) = %q, want %q", tt.seed, got, tt.expected)
			}
		})
	}

	t.Run("rejects URL without path or host", func(t *testing.T) {
		t.Parallel()

		if _, err := FileName("mailto:"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestMarshal tests the artifact encoding.
func TestMarshal(t *testing.T) {
	t.Parallel()

	t.Run("pretty prints with two spaces", func(t *testing.T) {
		t.Parallel()

		data, err := Marshal("Home\n\nHello World\n\n---\n\nAbout\n\nAbout Us")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := "{\n  \"content\": \"Home\\n\\nHello World\\n\\n---\\n\\nAbout\\n\\nAbout Us\"\n}\n"
		if string(data) != expected {
			t.Errorf("got %q, expected %q", string(data), expected)
		}
	})

	t.Run("keeps HTML characters", func(t *testing.T) {
		t.Parallel()

		data, err := Marshal("if a < b && c > d")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), "if a < b && c > d") {
			t.Errorf("expected raw HTML characters, got %s", data)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()

		data, err := Marshal("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "{\n  \"content\": \"\"\n}\n" {
			t.Errorf("unexpected output %q", string(data))
		}
	})
}

// TestWrite tests writing the artifact to disk.
func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("creates directory and file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "output")
		path, err := Write(dir, "https://example.com/docs", "Home\n\nHello")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != filepath.Join(dir, "docs.json") {
			t.Errorf("unexpected path %q", path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read artifact: %v", err)
		}
		var got Artifact
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("artifact is not valid JSON: %v", err)
		}
		if got.Content != "Home\n\nHello" {
			t.Errorf("unexpected content %q", got.Content)
		}
	})

	t.Run("overwrites an existing artifact", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		if _, err := Write(dir, "https://example.com/", "old"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		path, err := Write(dir, "https://example.com/", "new")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, _ := os.ReadFile(path)
		if !strings.Contains(string(data), `"new"`) {
			t.Errorf("expected new content, got %s", data)
		}
	})

	t.Run("fails when the directory cannot be created", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}

		_, err := Write(filepath.Join(blocker, "sub"), "https://example.com/", "x")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "failed to create output directory") {
			t.Errorf("unexpected error %v", err)
		}
	})
}
