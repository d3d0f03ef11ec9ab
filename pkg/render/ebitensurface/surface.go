// Package ebitensurface 将 Glow 命令批量绘制到 Ebitengine 图像
//
// 每个 Glow 展开为三角扇（圆盘）加一圈三角带（光晕），
// 顶点 alpha 线性插值即得到径向渐变；整帧的命令在 Flush 时
// 按混合模式分两批提交 DrawTriangles：先普通混合，再叠加混合。
package ebitensurface

import (
	"image"
	"image/color"
	"math"

	"github.com/decker502/fireworks/pkg/render"
	"github.com/hajimehoshi/ebiten/v2"
)

const (
	minSegments = 12
	maxSegments = 48
	// uint16 索引可寻址的最大顶点数
	maxBatchVertices = math.MaxUint16
	heartSegments    = 32
)

// heartOutline 单位爱心（r=1，未旋转）的轮廓点，沿中心发出的射线二分求得
var heartOutline = func() [heartSegments][2]float64 {
	var out [heartSegments][2]float64
	for i := range out {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / heartSegments)
		lo, hi := 0.0, 1.5
		for range 24 {
			mid := (lo + hi) / 2
			if render.InsideHeart(cos*mid, sin*mid, 1, 0) {
				lo = mid
			} else {
				hi = mid
			}
		}
		out[i] = [2]float64{cos * lo, sin * lo}
	}
	return out
}()

var (
	whiteImage    *ebiten.Image
	whiteSubImage *ebiten.Image
)

// 1x1 白色纹理，取 3x3 图像中心像素避免边缘采样
func sourceImage() *ebiten.Image {
	if whiteSubImage == nil {
		whiteImage = ebiten.NewImage(3, 3)
		whiteImage.Fill(color.White)
		whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

// additiveBlend 加法混合（用于发光效果）
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Surface 实现 render.Surface 和 render.Flusher
type Surface struct {
	target *ebiten.Image

	normal   []render.Glow
	additive []render.Glow

	// 顶点和索引数组（复用，避免每帧分配）
	vertices []ebiten.Vertex
	indices  []uint16
}

// New 创建 Surface；每帧绘制前需调用 SetTarget
func New() *Surface {
	return &Surface{
		vertices: make([]ebiten.Vertex, 0, 8192),
		indices:  make([]uint16, 0, 24576),
	}
}

// SetTarget 设置本帧的绘制目标（通常是 ebiten.Game.Draw 的 screen）
func (s *Surface) SetTarget(target *ebiten.Image) {
	s.target = target
}

// Size 实现 render.Surface
func (s *Surface) Size() (int, int) {
	if s.target == nil {
		return 0, 0
	}
	b := s.target.Bounds()
	return b.Dx(), b.Dy()
}

// Clear 实现 render.Surface：填充黑色并丢弃未提交的命令
func (s *Surface) Clear() {
	s.normal = s.normal[:0]
	s.additive = s.additive[:0]
	if s.target != nil {
		s.target.Fill(render.Background)
	}
}

// DrawGlow 实现 render.Surface：命令在 Flush 时统一绘制
func (s *Surface) DrawGlow(g render.Glow) {
	if g.Alpha <= 0 || g.Extent() <= 0 {
		return
	}
	if g.Blend == render.BlendAdditive {
		s.additive = append(s.additive, g)
	} else {
		s.normal = append(s.normal, g)
	}
}

// Pending 未提交的命令数
func (s *Surface) Pending() int {
	return len(s.normal) + len(s.additive)
}

// Flush 实现 render.Flusher
// 渲染顺序：先 Normal 后 Additive，保证发光效果叠加在上
func (s *Surface) Flush() {
	if s.target != nil {
		s.drawBatch(s.normal, nil)
		s.drawBatch(s.additive, &additiveBlend)
	}
	s.normal = s.normal[:0]
	s.additive = s.additive[:0]
}

func (s *Surface) drawBatch(glows []render.Glow, blend *ebiten.Blend) {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	submit := func() {
		if len(s.indices) == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
		if blend != nil {
			op.Blend = *blend
		}
		s.target.DrawTriangles(s.vertices, s.indices, sourceImage(), op)
		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
	}

	for _, g := range glows {
		seg := Segments(g)
		if len(s.vertices)+VertexCount(g, seg) > maxBatchVertices {
			submit()
		}
		s.vertices, s.indices = AppendGlow(s.vertices, s.indices, g, seg)
	}
	submit()
}

// Segments 按光晕外径选择圆周分段数
func Segments(g render.Glow) int {
	if g.Shape == render.ShapeHeart {
		return heartSegments
	}
	n := int(math.Ceil(g.Extent() * 1.5))
	if n < minSegments {
		return minSegments
	}
	if n > maxSegments {
		return maxSegments
	}
	return n
}

// VertexCount 一个 Glow 展开后的顶点数
func VertexCount(g render.Glow, segments int) int {
	n := 1 + segments
	if g.Halo > 0 && g.Shape != render.ShapeHeart {
		n += 2 * segments
	}
	return n
}

// AppendGlow 将 Glow 展开为三角形并追加到顶点/索引数组
//
// 圆心顶点 alpha = g.Alpha，圆周顶点 alpha = 圆盘边缘 alpha；
// 光晕为内外两圈顶点组成的三角带，内圈 alpha 为光晕起点强度，外圈为 0。
// 爱心形状为匀色三角扇，不带光晕。
func AppendGlow(vs []ebiten.Vertex, is []uint16, g render.Glow, segments int) ([]ebiten.Vertex, []uint16) {
	r := float32(g.Color.R) / 0xff
	gr := float32(g.Color.G) / 0xff
	b := float32(g.Color.B) / 0xff

	vertex := func(x, y float64, a float64) ebiten.Vertex {
		return ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: gr,
			ColorB: b,
			ColorA: float32(a),
		}
	}

	base := uint16(len(vs))
	if g.Shape == render.ShapeHeart {
		sin, cos := math.Sincos(g.Rotation)
		vs = append(vs, vertex(g.X, g.Y, g.Alpha))
		for _, pt := range heartOutline {
			x, y := pt[0]*g.Radius, pt[1]*g.Radius
			vs = append(vs, vertex(g.X+x*cos-y*sin, g.Y+x*sin+y*cos, g.Alpha))
		}
		for i := 0; i < heartSegments; i++ {
			next := (i + 1) % heartSegments
			is = append(is, base, base+1+uint16(i), base+1+uint16(next))
		}
		return vs, is
	}

	edge := g.EdgeAlpha()
	vs = append(vs, vertex(g.X, g.Y, g.Alpha))
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		vs = append(vs, vertex(g.X+g.Radius*math.Cos(theta), g.Y+g.Radius*math.Sin(theta), edge))
	}
	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		is = append(is, base, base+1+uint16(i), base+1+uint16(next))
	}

	if g.Halo <= 0 {
		return vs, is
	}

	haloStart := g.AlphaAt(g.Radius + 1e-9)
	inner := uint16(len(vs))
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		vs = append(vs, vertex(g.X+g.Radius*math.Cos(theta), g.Y+g.Radius*math.Sin(theta), haloStart))
	}
	outer := uint16(len(vs))
	outerR := g.Radius + g.Halo
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		vs = append(vs, vertex(g.X+outerR*math.Cos(theta), g.Y+outerR*math.Sin(theta), 0))
	}
	for i := 0; i < segments; i++ {
		next := (i + 1) % segments
		a, b2 := inner+uint16(i), inner+uint16(next)
		c, d := outer+uint16(i), outer+uint16(next)
		is = append(is, a, c, b2, b2, c, d)
	}
	return vs, is
}
