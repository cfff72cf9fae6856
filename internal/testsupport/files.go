package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes body to path, creating parent directories.
func WriteFile(t testing.TB, path, body string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteNuspec writes a minimal descriptor for id/version into dir declaring
// files, and creates each declared file with placeholder contents. It returns
// the descriptor path.
func WriteNuspec(t testing.TB, dir, id, version string, files ...string) string {
	t.Helper()

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\"?>\n<package>\n  <metadata>\n")
	b.WriteString("    <id>" + id + "</id>\n    <version>" + version + "</version>\n")
	b.WriteString("  </metadata>\n  <files>\n")
	for _, f := range files {
		b.WriteString("    <file src=\"" + f + "\" target=\"lib\" />\n")
		WriteFile(t, filepath.Join(dir, f), "placeholder")
	}
	b.WriteString("  </files>\n</package>\n")

	path := filepath.Join(dir, id+".nuspec")
	WriteFile(t, path, b.String())
	return path
}
