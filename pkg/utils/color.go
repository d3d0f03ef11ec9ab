package utils

import (
	"errors"
	"fmt"
	"image/color"
	"regexp"
	"strconv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color Utilities (颜色工具)
//
// 烟花调色板统一使用 "#rrggbb" 十六进制字符串。
// 渲染前解析为 0-255 通道值；环/层之间的渐变用 ShiftHue 廉价近似。

// ErrMalformedColor 颜色字符串不是 6 位十六进制
var ErrMalformedColor = errors.New("malformed hex color")

// ColorParseError 记录解析失败的原始输入
type ColorParseError struct {
	Input string
}

func (e *ColorParseError) Error() string {
	return fmt.Sprintf("parse color %q: %v", e.Input, ErrMalformedColor)
}

func (e *ColorParseError) Unwrap() error {
	return ErrMalformedColor
}

var hexColorPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`)

// ParseHexToChannels 解析 "#rrggbb"（# 可省略，大小写不敏感）为三个通道值
// 格式不匹配时返回 *ColorParseError，不会 panic
func ParseHexToChannels(hex string) (r, g, b uint8, err error) {
	m := hexColorPattern.FindStringSubmatch(hex)
	if m == nil {
		return 0, 0, 0, &ColorParseError{Input: hex}
	}
	var ch [3]uint8
	for i := range ch {
		v, perr := strconv.ParseUint(m[i+1], 16, 8)
		if perr != nil {
			return 0, 0, 0, &ColorParseError{Input: hex}
		}
		ch[i] = uint8(v)
	}
	return ch[0], ch[1], ch[2], nil
}

// FormatHex 将通道值格式化为小写 "#rrggbb"
func FormatHex(r, g, b uint8) string {
	c := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
	return c.Hex()
}

// ShiftHue 红色通道 +delta、蓝色通道 -delta（各自钳制到 [0,255]），绿色不变。
// 这不是真正的色相旋转，只用来区分不同环/层的颜色。
// 输入格式错误时原样返回。
func ShiftHue(hex string, delta int) string {
	r, g, b, err := ParseHexToChannels(hex)
	if err != nil {
		return hex
	}
	return FormatHex(clampChannel(int(r)+delta), g, clampChannel(int(b)-delta))
}

// ResolveColor 解析颜色，失败时返回 fallback 和解析错误（调用方负责上报）
func ResolveColor(hex string, fallback color.RGBA) (color.RGBA, error) {
	r, g, b, err := ParseHexToChannels(hex)
	if err != nil {
		return fallback, err
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
