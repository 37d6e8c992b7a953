package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_Encode(t *testing.T) {
	encoder := NewEncoder(300)

	t.Run("encode with default color", func(t *testing.T) {
		dataURL, raw, err := encoder.Encode("https://example.com", "")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))
		assert.NotEmpty(t, raw)

		// Payload should be a decodable PNG
		img, err := png.Decode(bytes.NewReader(raw))
		require.NoError(t, err)
		assert.Equal(t, 300, img.Bounds().Dx())
	})

	t.Run("encode with custom color", func(t *testing.T) {
		dataURL, raw, err := encoder.Encode("hello", "#ff0000")

		require.NoError(t, err)
		assert.NotEmpty(t, raw)

		encoded := strings.TrimPrefix(dataURL, "data:image/png;base64,")
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, decoded)
	})

	t.Run("encode with short hex color", func(t *testing.T) {
		_, raw, err := encoder.Encode("hello", "#f00")

		require.NoError(t, err)
		assert.NotEmpty(t, raw)
	})

	t.Run("encode with invalid color", func(t *testing.T) {
		_, _, err := encoder.Encode("hello", "red")

		assert.Error(t, err)
	})

	t.Run("encode empty text", func(t *testing.T) {
		_, _, err := encoder.Encode("", "#000000")

		assert.Error(t, err)
	})
}

func TestParseHexColor(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		c, err := parseHexColor("#112233")
		require.NoError(t, err)
		assert.Equal(t, color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0xff}, c)
	})

	t.Run("short form", func(t *testing.T) {
		c, err := parseHexColor("#abc")
		require.NoError(t, err)
		assert.Equal(t, color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 0xff}, c)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := parseHexColor("#12345")
		assert.Error(t, err)

		_, err = parseHexColor("zzzzzz")
		assert.Error(t, err)
	})
}
