// Package render 定义烟花绘制目标的抽象
//
// RenderSystem 只产生 Glow 绘制命令，具体光栅化由各 Surface 实现：
//   - ebitensurface: Ebitengine 图像（DrawTriangles 批量绘制）
//   - termsurface: tcell 终端（半块字符）
//   - ImageSurface: 软件光栅化到 *image.RGBA（快照工具、帧缓冲）
package render

import (
	"image/color"
	"math"
)

// BlendMode 混合模式
type BlendMode int

const (
	// BlendAdditive 叠加混合：重叠处颜色累加变亮
	BlendAdditive BlendMode = iota
	// BlendSourceOver 普通 alpha 混合（只有径向渐变）
	BlendSourceOver
)

func (m BlendMode) String() string {
	if m == BlendSourceOver {
		return "source-over"
	}
	return "additive"
}

// Shape Glow 的轮廓
type Shape int

const (
	// ShapeDisc 径向渐变圆盘
	ShapeDisc Shape = iota
	// ShapeHeart 实心爱心（尖端朝下，按 Rotation 旋转），不带渐变和光晕
	ShapeHeart
)

// heartExtent 爱心相对 Radius 的最大外接半径
const heartExtent = 1.35

// HaloStrength 光晕在圆盘边缘处相对中心 alpha 的强度
const HaloStrength = 0.5

// Glow 一个发光圆盘绘制命令
//
// 圆盘内部为从中心 Alpha 到 GradientRadius 处 0 的线性径向渐变，
// 只填充 Radius 以内；Halo > 0 时在圆盘外再绘制宽度为 Halo 的柔和光晕。
type Glow struct {
	X, Y           float64
	Radius         float64
	GradientRadius float64
	Color          color.RGBA
	Alpha          float64
	Halo           float64
	Blend          BlendMode

	Shape    Shape
	Rotation float64 // 弧度，仅 ShapeHeart 使用
}

// Surface 2D 绘制目标
type Surface interface {
	// Size 当前可绘制区域（像素）
	Size() (width, height int)
	// Clear 清屏为不透明黑色
	Clear()
	// DrawGlow 绘制一个发光圆盘
	DrawGlow(g Glow)
}

// Flusher 需要在一帧结束时提交批量绘制的 Surface
type Flusher interface {
	Flush()
}

// Extent 光晕覆盖的最大半径
func (g Glow) Extent() float64 {
	if g.Shape == ShapeHeart {
		return g.Radius * heartExtent
	}
	if g.Halo > 0 {
		return g.Radius + g.Halo
	}
	return g.Radius
}

// AlphaAt 距离圆心 d 处的不透明度
func (g Glow) AlphaAt(d float64) float64 {
	if g.Alpha <= 0 || d < 0 {
		return 0
	}
	edge := g.gradient(g.Radius)
	if d <= g.Radius {
		return g.gradient(d)
	}
	if g.Halo <= 0 || d >= g.Radius+g.Halo {
		return 0
	}
	t := 1 - (d-g.Radius)/g.Halo
	return HaloStrength * max(edge, g.Alpha*0.25) * t * t
}

// AlphaAtPoint 相对中心偏移 (dx, dy) 处的不透明度
func (g Glow) AlphaAtPoint(dx, dy float64) float64 {
	if g.Shape != ShapeHeart {
		return g.AlphaAt(math.Hypot(dx, dy))
	}
	if g.Alpha <= 0 || g.Radius <= 0 || !InsideHeart(dx, dy, g.Radius, g.Rotation) {
		return 0
	}
	return g.Alpha
}

// InsideHeart 判断点是否落在半宽约为 r 的爱心内
// 使用隐式曲线 (u²+v²-1)³ ≤ u²v³（v 轴朝上，纵向居中）
func InsideHeart(dx, dy, r, rotation float64) bool {
	if r <= 0 {
		return false
	}
	sin, cos := math.Sincos(rotation)
	x := dx*cos + dy*sin
	y := -dx*sin + dy*cos
	u := x / r
	v := -y/r + 0.12
	q := u*u + v*v - 1
	return q*q*q <= u*u*v*v*v
}

// EdgeAlpha 圆盘边缘处的不透明度
func (g Glow) EdgeAlpha() float64 {
	return g.gradient(g.Radius)
}

func (g Glow) gradient(d float64) float64 {
	if g.GradientRadius <= 0 {
		return g.Alpha
	}
	a := g.Alpha * (1 - d/g.GradientRadius)
	if a < 0 {
		return 0
	}
	return a
}
