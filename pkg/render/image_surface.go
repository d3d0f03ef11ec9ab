package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Background 清屏颜色
var Background = color.RGBA{R: 0, G: 0, B: 0, A: 0xff}

// ImageSurface 软件光栅化到 *image.RGBA 的 Surface
// 用于无界面快照工具和 Linux 帧缓冲输出
type ImageSurface struct {
	img *image.RGBA
}

// NewImageSurface 创建指定尺寸的离屏画布
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image 返回底层画布（下一次绘制前有效）
func (s *ImageSurface) Image() *image.RGBA { return s.img }

// Size 实现 Surface
func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize 重新分配画布（内容清空）
func (s *ImageSurface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Clear 实现 Surface
func (s *ImageSurface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
}

// DrawGlow 实现 Surface：逐像素计算径向不透明度并混合
func (s *ImageSurface) DrawGlow(g Glow) {
	if g.Alpha <= 0 {
		return
	}
	extent := g.Extent()
	if extent <= 0 {
		return
	}
	bounds := s.img.Bounds()
	area := image.Rect(
		int(math.Floor(g.X-extent)), int(math.Floor(g.Y-extent)),
		int(math.Ceil(g.X+extent))+1, int(math.Ceil(g.Y+extent))+1,
	).Intersect(bounds)
	if area.Empty() {
		return
	}

	src := g.Color
	for y := area.Min.Y; y < area.Max.Y; y++ {
		dy := float64(y) + 0.5 - g.Y
		for x := area.Min.X; x < area.Max.X; x++ {
			dx := float64(x) + 0.5 - g.X
			a := g.AlphaAtPoint(dx, dy)
			if a <= 0 {
				continue
			}
			i := s.img.PixOffset(x, y)
			pix := s.img.Pix[i : i+4 : i+4]
			if g.Blend == BlendAdditive {
				pix[0] = addChannel(pix[0], src.R, a)
				pix[1] = addChannel(pix[1], src.G, a)
				pix[2] = addChannel(pix[2], src.B, a)
			} else {
				pix[0] = blendChannel(pix[0], src.R, a)
				pix[1] = blendChannel(pix[1], src.G, a)
				pix[2] = blendChannel(pix[2], src.B, a)
			}
			pix[3] = 0xff
		}
	}
}

// addChannel 叠加混合：dst + src·a，钳制到 255
func addChannel(dst, src uint8, a float64) uint8 {
	return clamp(float64(dst) + float64(src)*a + 0.5)
}

// blendChannel 普通混合：dst·(1-a) + src·a
func blendChannel(dst, src uint8, a float64) uint8 {
	if a >= 1 {
		return src
	}
	return clamp(float64(dst)*(1-a) + float64(src)*a + 0.5)
}

func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 {
		return 0
	}
	return uint8(v)
}
