package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type zipEntry struct {
	name    string
	content string
}

func makeZip(t *testing.T, entries ...zipEntry) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	return zipPath
}

func collect(t *testing.T, zipPath, prefix string, match MatchFunc) []string {
	t.Helper()

	var visited []string
	err := Walk(zipPath, prefix, match, func(archive string, file *zip.File) error {
		if archive != zipPath {
			t.Errorf("archive = %s, want %s", archive, zipPath)
		}
		visited = append(visited, file.Name)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return visited
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{"styles/site.css", "a { color: red; }"},
		zipEntry{"styles/print.CSS", "a { color: black; }"},
		zipEntry{"styles/readme.txt", "readme"},
		zipEntry{"themes/dark.css", "a { color: white; }"},
		zipEntry{"index.html", "<html/>"},
	)

	tests := []struct {
		name   string
		prefix string
		match  MatchFunc
		want   []string
	}{
		{
			name:   "stylesheets under prefix",
			prefix: "styles/",
			match:  IsStylesheet,
			want:   []string{"styles/print.CSS", "styles/site.css"},
		},
		{
			name:   "all stylesheets",
			prefix: "",
			match:  IsStylesheet,
			want:   []string{"styles/print.CSS", "styles/site.css", "themes/dark.css"},
		},
		{
			name:   "everything under prefix",
			prefix: "styles/",
			want:   []string{"styles/print.CSS", "styles/readme.txt", "styles/site.css"},
		},
		{
			name:   "no matching prefix",
			prefix: "nonexistent/",
			match:  IsStylesheet,
			want:   nil,
		},
		{
			name:   "single entry",
			prefix: "themes/dark.css",
			match:  IsStylesheet,
			want:   []string{"themes/dark.css"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(t, zipPath, tt.prefix, tt.match)
			if !slices.Equal(got, tt.want) {
				t.Errorf("visited %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalk_NaturalOrder(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{"part10.css", ""},
		zipEntry{"part2.css", ""},
		zipEntry{"part1.css", ""},
	)

	got := collect(t, zipPath, "", IsStylesheet)
	want := []string{"part1.css", "part2.css", "part10.css"}
	if !slices.Equal(got, want) {
		t.Errorf("visited %v, want %v", got, want)
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", nil, func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}

		err := Walk(invalidZip, "", nil, func(archive string, file *zip.File) error {
			return nil
		})
		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{"good.css", ""},
		zipEntry{"../evil.css", ""},
	)

	var visited int
	err := Walk(zipPath, "", IsStylesheet, func(archive string, file *zip.File) error {
		visited++
		return nil
	})
	if err == nil {
		t.Error("Expected error for unsafe entry")
	}
	if visited != 0 {
		t.Errorf("visited %d files, want 0 for rejected archive", visited)
	}
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	dirHeader := &zip.FileHeader{Name: "dir.css/"}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	fw, err := w.Create("dir.css/file.css")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("a{}"))
	w.Close()
	zipFile.Close()

	got := collect(t, zipPath, "", nil)
	if !slices.Equal(got, []string{"dir.css/file.css"}) {
		t.Errorf("visited %v, want file only, not directory", got)
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := makeZip(t,
		zipEntry{"a.css", ""},
		zipEntry{"b.css", ""},
		zipEntry{"c.css", ""},
	)

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, "", IsStylesheet, func(archive string, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if !errors.Is(err, stopErr) {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}
	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := "a { color: red; }"
	zipPath := makeZip(t, zipEntry{"test.css", content})

	err := Walk(zipPath, "", IsStylesheet, func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}
		if buf.String() != content {
			t.Errorf("content = %s, want %s", buf.String(), content)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestIsStylesheet(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.css", true},
		{"dir/A.CSS", true},
		{"a.min.css", true},
		{"a.scss", false},
		{"css", false},
		{"a.css.txt", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStylesheet(tt.name); got != tt.want {
				t.Errorf("IsStylesheet(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.css", true},
		{"dir/a.css", true},
		{"dir/..a.css", true},
		{"../a.css", false},
		{"dir/../../a.css", false},
		{"/etc/a.css", false},
		{`\a.css`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSafePath(tt.name); got != tt.want {
				t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
