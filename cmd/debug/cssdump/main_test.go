package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"colorsonly/filter"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "site.css")
	if err := os.WriteFile(in, []byte("a { color: red; margin: 0; }"), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	if err := run(in, dir, true, filter.Options{}, false, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "site-dump.txt"))
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	dump := string(data)
	for _, want := range []string{
		`margin: "0"`,
		"--- filtered (colors) ---",
		"--- result ---\na {\n  color: red;\n}\n",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("expected %q in dump:\n%s", want, dump)
		}
	}

	// second run must not overwrite
	if err := run(in, dir, false, filter.Options{}, false, zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for existing output")
	}
	if err := run(in, dir, false, filter.Options{}, true, zaptest.NewLogger(t)); err != nil {
		t.Errorf("run() with overwrite error = %v", err)
	}
}
