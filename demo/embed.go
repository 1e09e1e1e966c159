package demo

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load reads a script from disk, falling back to the embedded demos for
// paths under demo/scripts/.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	clean, ok := embeddedPath(path)
	if !ok {
		return nil, err
	}
	if data, embErr := ScriptsFS.ReadFile(clean); embErr == nil {
		return data, nil
	}
	return nil, err
}

// Names lists the embedded demo scripts.
func Names() []string {
	entries, _ := ScriptsFS.ReadDir("scripts")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, "demo/scripts/"+e.Name())
	}
	return names
}

func embeddedPath(path string) (string, bool) {
	s := filepath.ToSlash(filepath.Clean(path))
	if after, ok := strings.CutPrefix(s, "demo/"); ok {
		s = after
	}
	if !strings.HasPrefix(s, "scripts/") {
		return "", false
	}
	return s, true
}
