package encoding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utf16leBytes(s string, withBOM bool) []byte {
	var out []byte
	if withBOM {
		out = append(out, 0xFF, 0xFE)
	}
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func TestDetect_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Company,Position")...)

	det := Detect(data)

	assert.Equal(t, UTF8, det.Encoding)
	assert.Equal(t, 1.0, det.Confidence)
}

func TestDetect_UTF16LEBOM(t *testing.T) {
	det := Detect(utf16leBytes("Company,Position", true))

	assert.Equal(t, UTF16LE, det.Encoding)
	assert.Equal(t, 1.0, det.Confidence)
}

func TestDetect_UTF16BEBOM(t *testing.T) {
	det := Detect([]byte{0xFE, 0xFF, 0x00, 'C', 0x00, 'o'})

	assert.Equal(t, UTF16BE, det.Encoding)
	assert.Equal(t, 1.0, det.Confidence)
}

func TestDetect_BOMlessUTF16LE(t *testing.T) {
	det := Detect(utf16leBytes("Company,Position,Location,Status", false))

	assert.Equal(t, UTF16LE, det.Encoding)
}

func TestDetect_PlainASCII(t *testing.T) {
	det := Detect([]byte("Company,Position\nGoogle,SWE\n"))

	assert.Equal(t, UTF8, det.Encoding)
	assert.GreaterOrEqual(t, det.Confidence, 0.9)
}

func TestDetect_ValidUTF8Multibyte(t *testing.T) {
	det := Detect([]byte("Company,Ünïcode Çity\n"))

	assert.Equal(t, UTF8, det.Encoding)
	assert.GreaterOrEqual(t, det.Confidence, 0.95)
}

func TestDetect_Latin1(t *testing.T) {
	// "Café" encoded as Latin-1: 0xE9 is an invalid UTF-8 sequence here
	data := []byte{'C', 'a', 'f', 0xE9, ',', 'P', 'a', 'r', 'i', 's'}

	det := Detect(data)

	assert.Equal(t, Latin1, det.Encoding)
}

func TestDetect_EmptyInput(t *testing.T) {
	det := Detect(nil)

	assert.Equal(t, UTF8, det.Encoding)
}

func TestDecode_UTF8StripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Company")...)

	text, err := Decode(data, UTF8)

	require.NoError(t, err)
	assert.Equal(t, "Company", text)
}

func TestDecode_UTF16LE(t *testing.T) {
	text, err := Decode(utf16leBytes("Google,SWE", true), UTF16LE)

	require.NoError(t, err)
	assert.Equal(t, "Google,SWE", text)
}

func TestDecode_Latin1(t *testing.T) {
	data := []byte{'C', 'a', 'f', 0xE9}

	text, err := Decode(data, Latin1)

	require.NoError(t, err)
	assert.Equal(t, "Café", text)
}

func TestDecode_InvalidUTF8NeverFails(t *testing.T) {
	data := []byte{'a', 0xFF, 'b'}

	text, err := Decode(data, UTF8)

	require.NoError(t, err)
	assert.Contains(t, text, "a")
	assert.Contains(t, text, "b")
}

func TestDetectAndDecode_RoundTrip(t *testing.T) {
	text, det, err := DetectAndDecode(utf16leBytes("Company,Position\nGoogle,SWE", true))

	require.NoError(t, err)
	assert.Equal(t, UTF16LE, det.Encoding)
	assert.Equal(t, "Company,Position\nGoogle,SWE", text)
}
