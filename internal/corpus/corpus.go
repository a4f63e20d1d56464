package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Artifact is the JSON document written for a crawl.
type Artifact struct {
	Content string `json:"content"`
}

// FileName returns the artifact file name for seedURL.
//
//	https://example.com/docs/guide/ -> guide.json
//	https://example.com/            -> example.com.json
func FileName(seedURL string) (string, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return "", fmt.Errorf("invalid seed URL: %w", err)
	}

	name := path.Base(strings.TrimRight(u.Path, "/"))
	if name == "" || name == "." || name == "/" {
		name = u.Hostname()
	}
	if name == "" {
		return "", fmt.Errorf("invalid seed URL: no path or host in %q", seedURL)
	}

	// Keep the name a single path element on every OS.
	name = strings.NewReplacer("/", "_", `\`, "_", ":", "_").Replace(name)
	return name + ".json", nil
}

// Write creates dir if needed and writes content as the artifact for
// seedURL. It returns the path of the written file.
func Write(dir, seedURL, content string) (string, error) {
	name, err := FileName(seedURL)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := Marshal(content)
	if err != nil {
		return "", err
	}

	out := filepath.Join(dir, name)
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write corpus file: %w", err)
	}
	return out, nil
}

// Marshal encodes content as a pretty-printed artifact with two-space
// indentation. HTML characters are written as-is.
func Marshal(content string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Artifact{Content: content}); err != nil {
		return nil, fmt.Errorf("failed to encode corpus: %w", err)
	}
	return buf.Bytes(), nil
}
