package remote

import (
	"bufio"
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeLines splits raw downloaded log bytes into trimmed lines. Game
// servers write admin logs as UTF-16LE (with or without BOM) or plain UTF-8;
// both are handled. A trailing empty line is dropped, interior empty lines
// are kept out entirely since no recognized event is an empty line.
func DecodeLines(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	text := decodeText(raw)

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r \t")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func decodeText(raw []byte) string {
	// BOM wins
	if len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xFE {
		return decodeUTF16(raw)
	}
	// Heuristic: UTF-16LE ASCII text has NUL high bytes, and log text never
	// legitimately contains NUL.
	if bytes.IndexByte(raw, 0x00) != -1 {
		return decodeUTF16(raw)
	}
	if utf8.Valid(raw) {
		return string(raw)
	}
	// Last resort: decode as UTF-16 anyway, invalid sequences become U+FFFD
	return decodeUTF16(raw)
}

func decodeUTF16(raw []byte) string {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	decoded, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
