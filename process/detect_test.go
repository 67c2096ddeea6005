package process

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

func TestIsArchiveFile(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("plain text with zip extension", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "fake.zip")
		if err := os.WriteFile(filePath, []byte("not a real zip file"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Error("isArchiveFile() = true, want false")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "empty.css")
		if err := os.WriteFile(filePath, nil, 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if got {
			t.Error("isArchiveFile() = true, want false")
		}
	})

	t.Run("real zip with any extension", func(t *testing.T) {
		filePath := filepath.Join(tmpDir, "styles.bin")
		zipFile, err := os.Create(filePath)
		if err != nil {
			t.Fatalf("Failed to create zip file: %v", err)
		}
		w := zip.NewWriter(zipFile)
		f, err := w.Create("a.css")
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		f.Write([]byte("a { color: red; }"))
		w.Close()
		zipFile.Close()

		got, err := isArchiveFile(filePath)
		if err != nil {
			t.Errorf("isArchiveFile() error = %v", err)
		}
		if !got {
			t.Error("isArchiveFile() = false, want true")
		}
	})

	t.Run("non-existent", func(t *testing.T) {
		if _, err := isArchiveFile(filepath.Join(tmpDir, "missing.zip")); err == nil {
			t.Error("Expected error for non-existent file, got nil")
		}
	})
}

func TestDetectUTF(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want srcEncoding
	}{
		{"UTF-8 BOM", []byte{0xEF, 0xBB, 0xBF, 0x61}, encUTF8},
		{"UTF-16 Big Endian BOM", []byte{0xFE, 0xFF, 0x00, 0x61}, encUTF16BigEndian},
		{"UTF-16 Little Endian BOM", []byte{0xFF, 0xFE, 0x61, 0x00}, encUTF16LittleEndian},
		{"UTF-32 Big Endian BOM", []byte{0x00, 0x00, 0xFE, 0xFF}, encUTF32BigEndian},
		{"UTF-32 Little Endian BOM", []byte{0xFF, 0xFE, 0x00, 0x00}, encUTF32LittleEndian},
		{"No BOM", []byte("a { }"), encUnknown},
		{"Too short", []byte{0xEF}, encUnknown},
		{"Empty", nil, encUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectUTF(tt.buf); got != tt.want {
				t.Errorf("detectUTF() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectReader(t *testing.T) {
	const text = "a { color: red; }"

	tests := []struct {
		name string
		enc  srcEncoding
		data func(t *testing.T) []byte
	}{
		{"unknown", encUnknown, func(t *testing.T) []byte { return []byte(text) }},
		{"utf8", encUTF8, func(t *testing.T) []byte { return append([]byte{0xEF, 0xBB, 0xBF}, text...) }},
		{"utf16be", encUTF16BigEndian, func(t *testing.T) []byte {
			out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			return out
		}},
		{"utf16le", encUTF16LittleEndian, func(t *testing.T) []byte {
			out, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			return out
		}},
		{"utf32be", encUTF32BigEndian, func(t *testing.T) []byte {
			out, err := utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewEncoder().Bytes([]byte(text))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			return out
		}},
		{"utf32le", encUTF32LittleEndian, func(t *testing.T) []byte {
			out, err := utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewEncoder().Bytes([]byte(text))
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			return out
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data(t)
			if got := detectUTF(data); got != tt.enc {
				t.Fatalf("detectUTF() = %v, want %v", got, tt.enc)
			}
			out, err := io.ReadAll(selectReader(bytes.NewReader(data), tt.enc))
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(out) != text {
				t.Errorf("decoded %q, want %q", out, text)
			}
		})
	}
}

func TestSelectReader_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for unsupported encoding")
		}
	}()
	selectReader(bytes.NewReader(nil), srcEncoding(999))
}

func TestSrcEncoding_String(t *testing.T) {
	names := map[srcEncoding]string{
		encUnknown:           "unknown",
		encUTF8:              "utf8",
		encUTF16BigEndian:    "utf16be",
		encUTF16LittleEndian: "utf16le",
		encUTF32BigEndian:    "utf32be",
		encUTF32LittleEndian: "utf32le",
	}
	for enc, want := range names {
		if got := enc.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestCharsetLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`@charset "windows-1251"; a { }`, "windows-1251"},
		{`@charset "UTF-8";`, "UTF-8"},
		{`@charset 'windows-1251';`, ""},
		{`@charset  "windows-1251";`, ""},
		{`@charset "windows-1251"`, ""},
		{`@charset "";`, ""},
		{` @charset "windows-1251";`, ""},
		{`a { color: red; }`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := charsetLabel([]byte(tt.in)); got != tt.want {
				t.Errorf("charsetLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeInput(t *testing.T) {
	log := zaptest.NewLogger(t)

	// "Пр" in windows-1251
	cyrillic := []byte{0xCF, 0xF0}

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(`a { content: "Пр"; }`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	tests := []struct {
		name      string
		data      []byte
		forced    bool
		want      string
		wantLabel string
	}{
		{
			name: "plain utf-8",
			data: []byte(`a { content: "Пр"; }`),
			want: `a { content: "Пр"; }`,
		},
		{
			name:      "utf-16 with BOM",
			data:      utf16,
			want:      `a { content: "Пр"; }`,
			wantLabel: "utf16le",
		},
		{
			name:      "charset rule",
			data:      append([]byte(`@charset "windows-1251"; a { content: "`), append(cyrillic, `"; }`...)...),
			want:      `@charset "windows-1251"; a { content: "Пр"; }`,
			wantLabel: "windows-1251",
		},
		{
			name:      "forced encoding",
			data:      append([]byte(`a { content: "`), append(cyrillic, `"; }`...)...),
			forced:    true,
			want:      `a { content: "Пр"; }`,
			wantLabel: "windows-1251",
		},
		{
			name: "utf-8 charset rule",
			data: []byte(`@charset "utf-8"; a { }`),
			want: `@charset "utf-8"; a { }`,
		},
		{
			name: "unknown charset rule",
			data: []byte(`@charset "no-such-thing"; a { }`),
			want: `@charset "no-such-thing"; a { }`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var forced encoding.Encoding
			if tt.forced {
				forced = charmap.Windows1251
			}
			got, label, err := decodeInput(tt.data, forced, log)
			if err != nil {
				t.Fatalf("decodeInput() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("decodeInput() = %q, want %q", got, tt.want)
			}
			if label != tt.wantLabel {
				t.Errorf("decodeInput() label = %q, want %q", label, tt.wantLabel)
			}
		})
	}
}
