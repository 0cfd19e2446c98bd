package remote

import (
	"reflect"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func utf16le(t *testing.T, s string, bom bool) []byte {
	t.Helper()
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if bom {
		out = append([]byte{0xFF, 0xFE}, out...)
	}
	return out
}

func TestDecodeLinesUTF8(t *testing.T) {
	raw := []byte("line one\nline two\r\n\nline three\n")
	want := []string{"line one", "line two", "line three"}
	if got := DecodeLines(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeLines = %v, want %v", got, want)
	}
}

func TestDecodeLinesUTF16LEWithBOM(t *testing.T) {
	raw := utf16le(t, "first\r\nsecond\r\n", true)
	want := []string{"first", "second"}
	if got := DecodeLines(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeLines = %v, want %v", got, want)
	}
}

func TestDecodeLinesUTF16LEWithoutBOM(t *testing.T) {
	raw := utf16le(t, "no bom here\n", false)
	want := []string{"no bom here"}
	if got := DecodeLines(raw); !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeLines = %v, want %v", got, want)
	}
}

func TestDecodeLinesEmpty(t *testing.T) {
	if got := DecodeLines(nil); got != nil {
		t.Errorf("DecodeLines(nil) = %v", got)
	}
	if got := DecodeLines([]byte{}); got != nil {
		t.Errorf("DecodeLines(empty) = %v", got)
	}
}

func TestDecodeLinesKeepsPlayerNames(t *testing.T) {
	raw := utf16le(t, `14:02:07 | Player "Бок"(id=xyz) committed suicide`+"\n", true)
	got := DecodeLines(raw)
	if len(got) != 1 || got[0] != `14:02:07 | Player "Бок"(id=xyz) committed suicide` {
		t.Errorf("DecodeLines = %v", got)
	}
}
