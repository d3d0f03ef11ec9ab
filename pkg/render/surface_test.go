package render

import (
	"image/color"
	"math"
	"testing"
)

func TestGlow_AlphaAt(t *testing.T) {
	g := Glow{Radius: 4, GradientRadius: 5, Alpha: 0.8, Halo: 6}

	tests := []struct {
		name string
		d    float64
		want float64
	}{
		{"圆心", 0, 0.8},
		{"渐变中点", 2.5, 0.4},
		{"圆盘边缘", 4, 0.8 * (1 - 4.0/5)},
		{"光晕外", 10, 0},
		{"远处", 100, 0},
		{"负距离", -1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.AlphaAt(tt.d); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AlphaAt(%v) = %v, want %v", tt.d, got, tt.want)
			}
		})
	}

	// 光晕随距离单调衰减
	prev := g.AlphaAt(4.0001)
	for d := 4.5; d < 10; d += 0.5 {
		cur := g.AlphaAt(d)
		if cur > prev {
			t.Fatalf("halo alpha increases at d=%v: %v > %v", d, cur, prev)
		}
		prev = cur
	}

	noHalo := Glow{Radius: 4, GradientRadius: 5, Alpha: 1}
	if noHalo.AlphaAt(4.5) != 0 || noHalo.Extent() != 4 {
		t.Errorf("glow without halo should end at its radius")
	}
	if g.Extent() != 10 {
		t.Errorf("Extent() = %v, want 10", g.Extent())
	}
}

func TestImageSurface_Clear(t *testing.T) {
	s := NewImageSurface(8, 6)
	if w, h := s.Size(); w != 8 || h != 6 {
		t.Fatalf("Size() = %dx%d", w, h)
	}
	s.Clear()
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			if c := s.Image().RGBAAt(x, y); c != Background {
				t.Fatalf("pixel (%d,%d) = %v after Clear, want opaque black", x, y, c)
			}
		}
	}
}

func TestImageSurface_DrawGlow(t *testing.T) {
	src := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}

	tests := []struct {
		name  string
		blend BlendMode
		times int
		want  color.RGBA
	}{
		{"叠加一次", BlendAdditive, 1, color.RGBA{R: 200, G: 100, B: 50, A: 0xff}},
		{"叠加两次钳制", BlendAdditive, 2, color.RGBA{R: 255, G: 200, B: 100, A: 0xff}},
		{"普通混合两次不变", BlendSourceOver, 2, color.RGBA{R: 200, G: 100, B: 50, A: 0xff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewImageSurface(21, 21)
			s.Clear()
			g := Glow{X: 10.5, Y: 10.5, Radius: 3, GradientRadius: 4, Color: src, Alpha: 1, Blend: tt.blend}
			for i := 0; i < tt.times; i++ {
				s.DrawGlow(g)
			}
			if got := s.Image().RGBAAt(10, 10); got != tt.want {
				t.Errorf("center pixel = %v, want %v", got, tt.want)
			}
			if got := s.Image().RGBAAt(0, 0); got != Background {
				t.Errorf("corner pixel = %v, want untouched", got)
			}
		})
	}
}

func TestImageSurface_HaloReachesBeyondDisc(t *testing.T) {
	s := NewImageSurface(40, 40)
	s.Clear()
	s.DrawGlow(Glow{X: 20.5, Y: 20.5, Radius: 2, GradientRadius: 3, Color: color.RGBA{R: 255, A: 255}, Alpha: 1, Halo: 10})
	if got := s.Image().RGBAAt(26, 20); got.R == 0 {
		t.Error("pixel inside halo should be lit")
	}
	if got := s.Image().RGBAAt(35, 20); got.R != 0 {
		t.Errorf("pixel beyond halo = %v, want black", got)
	}
}

func TestImageSurface_ClipsOffscreen(t *testing.T) {
	s := NewImageSurface(10, 10)
	s.Clear()
	// 完全在画布外或部分越界都不应 panic
	s.DrawGlow(Glow{X: -50, Y: -50, Radius: 5, GradientRadius: 6, Alpha: 1, Color: color.RGBA{R: 255, A: 255}})
	s.DrawGlow(Glow{X: 9.5, Y: 0, Radius: 5, GradientRadius: 6, Alpha: 1, Color: color.RGBA{G: 255, A: 255}})
	if got := s.Image().RGBAAt(9, 0); got.G == 0 {
		t.Error("partially visible glow should be drawn")
	}
	s.DrawGlow(Glow{X: 5, Y: 5, Radius: 5, Alpha: 0})
	s.Resize(-1, 3)
	if w, h := s.Size(); w != 0 || h != 3 {
		t.Errorf("Resize(-1,3) size = %dx%d", w, h)
	}
}

func TestInsideHeart(t *testing.T) {
	const r = 10.0
	tests := []struct {
		name     string
		dx, dy   float64
		rotation float64
		want     bool
	}{
		{"中心", 0, 0, 0, true},
		{"下半部", 0, r, 0, true},
		{"尖端以下", 0, 1.2 * r, 0, false},
		{"顶部凹口", 0, -0.95 * r, 0, false},
		{"左上瓣", -0.9 * r, -0.9 * r, 0, true},
		{"右上瓣", 0.9 * r, -0.9 * r, 0, true},
		{"远处", 3 * r, 0, 0, false},
		{"倒转后上方", 0, -r, math.Pi, true},
		{"倒转后下方", 0, r, math.Pi, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InsideHeart(tt.dx, tt.dy, r, tt.rotation); got != tt.want {
				t.Errorf("InsideHeart(%v, %v, rot=%v) = %v, want %v", tt.dx, tt.dy, tt.rotation, got, tt.want)
			}
		})
	}
	if InsideHeart(0, 0, 0, 0) {
		t.Error("zero radius heart should contain nothing")
	}
}

func TestGlow_AlphaAtPoint_Heart(t *testing.T) {
	g := Glow{Radius: 10, Alpha: 0.6, Shape: ShapeHeart}
	if got := g.AlphaAtPoint(0, 0); got != 0.6 {
		t.Errorf("alpha at center = %v, want uniform 0.6", got)
	}
	if got := g.AlphaAtPoint(0, 5); got != 0.6 {
		t.Errorf("alpha inside = %v, want 0.6", got)
	}
	if got := g.AlphaAtPoint(0, -9.5); got != 0 {
		t.Errorf("alpha in cleft = %v, want 0", got)
	}
	if g.Extent() != 10*heartExtent {
		t.Errorf("Extent() = %v", g.Extent())
	}

	// 外接半径覆盖整颗爱心
	for a := 0.0; a < 2*math.Pi; a += 0.05 {
		d := g.Extent() + 0.01
		if g.AlphaAtPoint(d*math.Cos(a), d*math.Sin(a)) != 0 {
			t.Fatalf("heart reaches beyond Extent at angle %v", a)
		}
	}

	disc := Glow{Radius: 4, GradientRadius: 5, Alpha: 0.8}
	if got, want := disc.AlphaAtPoint(3, 4), disc.AlphaAt(5); got != want {
		t.Errorf("disc AlphaAtPoint = %v, want AlphaAt(5) = %v", got, want)
	}
}

func TestImageSurface_DrawHeart(t *testing.T) {
	s := NewImageSurface(40, 40)
	s.Clear()
	s.DrawGlow(Glow{X: 20, Y: 20, Radius: 10, Alpha: 1, Color: color.RGBA{R: 255, A: 0xff}, Shape: ShapeHeart, Blend: BlendSourceOver})

	if c := s.Image().RGBAAt(20, 25); c.R != 255 {
		t.Errorf("heart body pixel = %v, want red", c)
	}
	if c := s.Image().RGBAAt(27, 27); c != Background {
		t.Errorf("pixel beside lower edge = %v, want background", c)
	}
	if c := s.Image().RGBAAt(20, 33); c != Background {
		t.Errorf("pixel below tip = %v, want background", c)
	}
}
