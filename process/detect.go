package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func (e srcEncoding) String() string {
	switch e {
	case encUTF8:
		return "utf8"
	case encUTF16BigEndian:
		return "utf16be"
	case encUTF16LittleEndian:
		return "utf16le"
	case encUTF32BigEndian:
		return "utf32be"
	case encUTF32LittleEndian:
		return "utf32le"
	default:
		return "unknown"
	}
}

// enough for filetype to recognize any archive it knows
const headerSize = 262

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BEBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LEBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

func isUTF32BEBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LEBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

// detectUTF looks for byte order mark. UTF-32LE has to be checked before
// UTF-16LE since they share first two bytes.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32LEBOM4(buf):
		return encUTF32LittleEndian
	case isUTF32BEBOM4(buf):
		return encUTF32BigEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BEBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LEBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

// selectReader returns reader which removes BOM and converts content to UTF-8.
func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	default:
		// this should never happen
		panic(fmt.Sprintf("unsupported source encoding %d", enc))
	}
}

// isArchiveFile checks content of the file, extension does not matter.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// charsetLabel returns encoding label from "@charset" rule, which is only
// recognized at the very beginning of the stylesheet in its exact form.
func charsetLabel(data []byte) string {
	const prefix = `@charset "`
	if !bytes.HasPrefix(data, []byte(prefix)) {
		return ""
	}
	rest := data[len(prefix):]
	end := bytes.IndexByte(rest, '"')
	if end <= 0 || !bytes.HasPrefix(rest[end:], []byte(`";`)) {
		return ""
	}
	return string(rest[:end])
}

// decodeInput converts stylesheet to UTF-8. Order of precedence is: byte
// order mark, forced encoding, "@charset" rule. Returned label names
// encoding source was converted from, empty when nothing was done.
func decodeInput(data []byte, forced encoding.Encoding, log *zap.Logger) ([]byte, string, error) {
	if enc := detectUTF(data); enc != encUnknown {
		out, err := io.ReadAll(selectReader(bytes.NewReader(data), enc))
		if err != nil {
			return nil, "", fmt.Errorf("unable to decode %s input: %w", enc, err)
		}
		return out, enc.String(), nil
	}

	if forced != nil {
		out, err := forced.NewDecoder().Bytes(data)
		if err != nil {
			return nil, "", fmt.Errorf("unable to decode input: %w", err)
		}
		name, _ := ianaindex.IANA.Name(forced)
		return out, name, nil
	}

	label := charsetLabel(data)
	if len(label) == 0 {
		return data, "", nil
	}
	enc, name := charset.Lookup(label)
	if enc == nil {
		log.Warn("Unknown @charset, treating input as UTF-8", zap.String("charset", label))
		return data, "", nil
	}
	if name == "utf-8" {
		return data, "", nil
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode input from %s: %w", name, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode input from %s: %w", name, err)
	}
	return out, name, nil
}
