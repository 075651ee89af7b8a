package engine

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

// decodeSource honors a UTF-8 or UTF-16 byte order mark and falls back to
// Windows-1252 for bytes that are not valid UTF-8. Binary content decodes to "".
func decodeSource(b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	hasBOM := bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(b, []byte{0xFF, 0xFE}) || bytes.HasPrefix(b, []byte{0xFE, 0xFF})
	if hasBOM {
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, b)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	if looksBinary(b) {
		return "", nil
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func looksBinary(b []byte) bool {
	n := min(len(b), 800)
	return bytes.IndexByte(b[:n], 0) >= 0
}
