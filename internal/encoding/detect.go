// Package encoding detects the text encoding of uploaded CSV files and
// decodes their bytes into UTF-8 strings.
package encoding

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names returned by Detect
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
	Latin1  = "iso-8859-1"
)

// sniffLimit caps how much of the file the statistical heuristics inspect
const sniffLimit = 8192

// Detection holds the outcome of encoding detection
type Detection struct {
	Encoding   string  `json:"encoding"`
	Confidence float64 `json:"confidence"`
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect inspects raw file bytes and decides a text encoding. A byte-order
// mark is definitive; otherwise byte-pattern heuristics run over a prefix.
// Detect never fails: unrecognizable input falls back to UTF-8 with low
// confidence.
func Detect(data []byte) Detection {
	if len(data) == 0 {
		return Detection{Encoding: UTF8, Confidence: 1.0}
	}

	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return Detection{Encoding: UTF8, Confidence: 1.0}
	case bytes.HasPrefix(data, bomUTF16LE):
		return Detection{Encoding: UTF16LE, Confidence: 1.0}
	case bytes.HasPrefix(data, bomUTF16BE):
		return Detection{Encoding: UTF16BE, Confidence: 1.0}
	}

	sample := data
	if len(sample) > sniffLimit {
		sample = sample[:sniffLimit]
	}

	// BOM-less UTF-16 shows up as interleaved NUL bytes for ASCII-heavy text
	if enc, ok := sniffUTF16(sample); ok {
		return Detection{Encoding: enc, Confidence: 0.8}
	}

	if utf8.Valid(sample) {
		if isASCII(sample) {
			// Pure ASCII decodes identically either way; call it UTF-8
			return Detection{Encoding: UTF8, Confidence: 0.9}
		}
		return Detection{Encoding: UTF8, Confidence: 0.95}
	}

	// Invalid UTF-8 continuation sequences favor a single-byte encoding
	if highByteRatio(sample) > 0 {
		return Detection{Encoding: Latin1, Confidence: 0.7}
	}

	return Detection{Encoding: UTF8, Confidence: 0.3}
}

// Decode converts raw file bytes to a UTF-8 string using the named encoding.
// The BOM, if present, is stripped. Unknown encoding names fall back to
// UTF-8 with invalid sequences replaced, so a bad guess never loses the file.
func Decode(data []byte, encoding string) (string, error) {
	switch encoding {
	case UTF16LE:
		return decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case UTF16BE:
		return decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	case Latin1:
		return decodeWith(data, charmap.ISO8859_1.NewDecoder())
	default:
		data = bytes.TrimPrefix(data, bomUTF8)
		if utf8.Valid(data) {
			return string(data), nil
		}
		// Replace invalid sequences rather than failing the upload
		return string(bytes.ToValidUTF8(data, []byte("�"))), nil
	}
}

// DetectAndDecode runs detection and decoding in one step
func DetectAndDecode(data []byte) (string, Detection, error) {
	det := Detect(data)
	text, err := Decode(data, det.Encoding)
	if err != nil {
		return "", det, fmt.Errorf("decoding as %s: %w", det.Encoding, err)
	}
	return text, det, nil
}

func decodeWith(data []byte, decoder transform.Transformer) (string, error) {
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// sniffUTF16 looks for the NUL-interleaving pattern of BOM-less UTF-16 text
func sniffUTF16(sample []byte) (string, bool) {
	if len(sample) < 4 {
		return "", false
	}
	oddNuls, evenNuls := 0, 0
	for i, b := range sample {
		if b != 0x00 {
			continue
		}
		if i%2 == 0 {
			evenNuls++
		} else {
			oddNuls++
		}
	}
	half := len(sample) / 2
	threshold := half * 3 / 4
	if oddNuls > threshold && evenNuls < half/8 {
		return UTF16LE, true
	}
	if evenNuls > threshold && oddNuls < half/8 {
		return UTF16BE, true
	}
	return "", false
}

func isASCII(sample []byte) bool {
	for _, b := range sample {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

func highByteRatio(sample []byte) float64 {
	if len(sample) == 0 {
		return 0
	}
	high := 0
	for _, b := range sample {
		if b >= 0x80 {
			high++
		}
	}
	return float64(high) / float64(len(sample))
}
