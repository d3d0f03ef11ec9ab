package termsurface

import (
	"image/color"
	"testing"

	"github.com/decker502/fireworks/pkg/render"
	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init: %v", err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestSurface_SizeUsesScale(t *testing.T) {
	screen := newSimScreen(t, 80, 24)
	s := New(screen, 8)
	if w, h := s.Size(); w != 640 || h != 384 {
		t.Errorf("Size() = %dx%d, want 640x384", w, h)
	}

	screen.SetSize(100, 30)
	s.Resize()
	if w, h := s.Size(); w != 800 || h != 480 {
		t.Errorf("Size() after resize = %dx%d, want 800x480", w, h)
	}

	if New(screen, 0).Scale() != 1 {
		t.Error("non-positive scale should default to 1")
	}
}

func TestSurface_DrawGlowAndFlush(t *testing.T) {
	screen := newSimScreen(t, 20, 10)
	s := New(screen, 4)
	s.Clear()

	// 逻辑坐标 (42,42) → 终端像素 (10.5,10.5) → 单元格 (10,5) 的上半部
	s.DrawGlow(render.Glow{
		X: 42, Y: 42, Radius: 8, GradientRadius: 10,
		Color: color.RGBA{R: 255, G: 215, A: 255}, Alpha: 1, Blend: render.BlendAdditive,
	})

	center := s.PixelAt(10, 10)
	if center.R < 0.9 || center.G < 0.7 || center.B != 0 {
		t.Errorf("center pixel = %+v, want bright gold", center)
	}
	if far := s.PixelAt(0, 0); far.R != 0 {
		t.Errorf("far pixel = %+v, want black", far)
	}

	s.Flush()
	cells, w, _ := screen.GetContents()
	cell := cells[5*w+10]
	if len(cell.Runes) == 0 || cell.Runes[0] != halfBlock {
		t.Fatalf("cell runes = %q, want half block", cell.Runes)
	}
	fg, _, _ := cell.Style.Decompose()
	r, g, b := fg.RGB()
	if r < 200 || g < 150 || b != 0 {
		t.Errorf("cell foreground = (%d,%d,%d), want gold", r, g, b)
	}
}

func TestSurface_AdditiveSaturates(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := New(screen, 1)
	s.Clear()
	g := render.Glow{X: 5.5, Y: 5.5, Radius: 2, GradientRadius: 3, Color: color.RGBA{R: 200, A: 255}, Alpha: 1, Blend: render.BlendAdditive}
	for i := 0; i < 3; i++ {
		s.DrawGlow(g)
	}
	if c := s.PixelAt(5, 5); c.R <= 1 {
		t.Errorf("accumulated red = %v, want > 1 before clamping", c.R)
	}
	s.Flush()
	cells, w, _ := screen.GetContents()
	_, bg, _ := cells[2*w+5].Style.Decompose()
	if r, _, _ := bg.RGB(); r != 255 {
		t.Errorf("clamped background red = %d, want 255", r)
	}
}

func TestSurface_TinyParticleStillVisible(t *testing.T) {
	screen := newSimScreen(t, 10, 5)
	s := New(screen, 10)
	s.Clear()
	s.DrawGlow(render.Glow{X: 55, Y: 55, Radius: 1, GradientRadius: 2, Color: color.RGBA{B: 255, A: 255}, Alpha: 1, Blend: render.BlendSourceOver})
	if c := s.PixelAt(5, 5); c.B == 0 {
		t.Error("sub-pixel particle should still light its terminal pixel")
	}
	// 越界绘制不 panic
	s.DrawGlow(render.Glow{X: -500, Y: 9000, Radius: 30, Alpha: 1})
}
