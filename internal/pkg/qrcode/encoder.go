package qrcode

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	qrc "github.com/skip2/go-qrcode"
)

// 默认前景色（黑）
const DefaultColor = "#000000"

// Encoder 二维码编码器，输出 PNG 及 base64 data URL
type Encoder struct {
	size int
}

func NewEncoder(size int) *Encoder {
	return &Encoder{size: size}
}

// Encode 编码文本为二维码。hexColor 为前景色（#RGB 或 #RRGGBB），空值用默认黑色。
func (e *Encoder) Encode(text, hexColor string) (string, []byte, error) {
	if hexColor == "" {
		hexColor = DefaultColor
	}
	fg, err := parseHexColor(hexColor)
	if err != nil {
		return "", nil, err
	}

	code, err := qrc.New(text, qrc.High)
	if err != nil {
		return "", nil, fmt.Errorf("failed to build qr code: %w", err)
	}
	code.ForegroundColor = fg
	code.BackgroundColor = color.White

	png, err := code.PNG(e.size)
	if err != nil {
		return "", nil, fmt.Errorf("failed to render qr png: %w", err)
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return dataURL, png, nil
}

// parseHexColor 解析 #RGB / #RRGGBB 格式颜色
func parseHexColor(s string) (color.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", s)
	}

	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xff,
	}, nil
}
