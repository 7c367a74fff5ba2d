package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var errUndecodable = errors.New("input is not valid in this encoding")

// Codec decodes raw bytes into a string, failing when the bytes are not valid for it.
type Codec struct {
	Name   string
	Decode func(data []byte) (string, error)
}

// DefaultCodecs returns the plain-text decoding order:
// utf-8, utf-16, latin-1, cp1252, iso-8859-1.
func DefaultCodecs() []Codec {
	return []Codec{
		{Name: "utf-8", Decode: decodeUTF8},
		// UTF-16 is only accepted with a byte order mark; without one, any even-length
		// single-byte text would "decode" into CJK noise.
		{Name: "utf-16", Decode: decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM))},
		{Name: "latin-1", Decode: decodeWith(charmap.ISO8859_1)},
		{Name: "cp1252", Decode: decodeWith(charmap.Windows1252)},
		{Name: "iso-8859-1", Decode: decodeWith(charmap.ISO8859_1)},
	}
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errUndecodable
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func decodeWith(enc encoding.Encoding) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		out, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", errUndecodable
		}
		return string(out), nil
	}
}

func (e *Extractor) extractTXT(data []byte) Result {
	decoded := false
	for _, codec := range e.codecs {
		text, err := codec.Decode(data)
		if err != nil {
			e.log.Debug("text codec rejected input", "codec", codec.Name, "error", err)
			continue
		}
		decoded = true
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return succeeded(&Document{Text: trimmed, Format: FormatTXT, Strategy: codec.Name})
		}
	}
	if decoded {
		return failed(KindEmptyDocument, "the text file appears to be empty", nil)
	}
	return failed(KindEncodingError,
		fmt.Sprintf("could not decode the text content with any supported encoding (%d tried)", len(e.codecs)), nil)
}
