// Package termsurface 在 tcell 终端中绘制烟花
//
// 每个字符单元用上半块字符 '▀' 表示上下两个像素（前景色为上、背景色为下）。
// 逻辑坐标按 scale 缩放到单元格像素，使同一配置在窗口和终端中比例一致。
package termsurface

import (
	"math"

	"github.com/decker502/fireworks/pkg/render"
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const halfBlock = '▀'

// Surface 实现 render.Surface 和 render.Flusher
type Surface struct {
	screen tcell.Screen
	scale  float64 // 每个终端像素对应的逻辑像素数

	cols, rows int
	// 每个终端像素的线性 RGB（0-1），行数为 rows*2
	buf []colorful.Color
}

// New 创建终端 Surface；scale <= 0 时使用 1
func New(screen tcell.Screen, scale float64) *Surface {
	if scale <= 0 {
		scale = 1
	}
	s := &Surface{screen: screen, scale: scale}
	s.Resize()
	return s
}

// Resize 重新读取终端尺寸（收到 *tcell.EventResize 后调用）
func (s *Surface) Resize() {
	cols, rows := s.screen.Size()
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	s.cols, s.rows = cols, rows
	s.buf = make([]colorful.Color, cols*rows*2)
}

// Scale 返回逻辑像素与终端像素的比例
func (s *Surface) Scale() float64 { return s.scale }

// Size 实现 render.Surface（逻辑像素）
func (s *Surface) Size() (int, int) {
	return int(float64(s.cols) * s.scale), int(float64(s.rows*2) * s.scale)
}

// Clear 实现 render.Surface
func (s *Surface) Clear() {
	for i := range s.buf {
		s.buf[i] = colorful.Color{}
	}
}

// DrawGlow 实现 render.Surface
// 半径不足半个终端像素的粒子按半个像素绘制，避免在终端中消失
func (s *Surface) DrawGlow(g render.Glow) {
	if g.Alpha <= 0 {
		return
	}
	g.X /= s.scale
	g.Y /= s.scale
	g.Radius = math.Max(g.Radius/s.scale, 0.5)
	g.GradientRadius /= s.scale
	if g.GradientRadius > 0 && g.GradientRadius < g.Radius {
		g.GradientRadius = g.Radius * 1.25
	}
	g.Halo /= s.scale

	extent := g.Extent()
	height := s.rows * 2
	x0 := max(int(math.Floor(g.X-extent)), 0)
	y0 := max(int(math.Floor(g.Y-extent)), 0)
	x1 := min(int(math.Ceil(g.X+extent))+1, s.cols)
	y1 := min(int(math.Ceil(g.Y+extent))+1, height)

	src := colorful.Color{
		R: float64(g.Color.R) / 255,
		G: float64(g.Color.G) / 255,
		B: float64(g.Color.B) / 255,
	}
	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - g.Y
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - g.X
			a := g.AlphaAtPoint(dx, dy)
			if a <= 0 {
				continue
			}
			c := &s.buf[y*s.cols+x]
			if g.Blend == render.BlendAdditive {
				c.R += src.R * a
				c.G += src.G * a
				c.B += src.B * a
			} else {
				*c = c.BlendRgb(src, math.Min(a, 1))
			}
		}
	}
}

// Flush 实现 render.Flusher：写入单元格并刷新终端
func (s *Surface) Flush() {
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			top := s.buf[(row*2)*s.cols+col]
			bottom := s.buf[(row*2+1)*s.cols+col]
			style := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bottom))
			s.screen.SetContent(col, row, halfBlock, nil, style)
		}
	}
	s.screen.Show()
}

// PixelAt 返回终端像素颜色（测试和调试用）
func (s *Surface) PixelAt(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= s.cols || y >= s.rows*2 {
		return colorful.Color{}
	}
	return s.buf[y*s.cols+x]
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
