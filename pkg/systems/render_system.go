package systems

import (
	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/pool"
	"github.com/decker502/fireworks/pkg/render"
)

// RenderSystem 将存活粒子转换为 Glow 绘制命令
//
// 绘制顺序即池中顺序；上升阶段的粒子不绘制（由尾迹表现上升过程）。
type RenderSystem struct {
	pool *pool.Pool

	blend     render.BlendMode
	burstGlow float64
	trailGlow bool
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(p *pool.Pool, cfg *config.Config) *RenderSystem {
	s := &RenderSystem{pool: p}
	s.SetConfig(cfg)
	return s
}

// SetConfig 切换渲染参数
func (s *RenderSystem) SetConfig(cfg *config.Config) {
	s.blend = render.BlendAdditive
	if cfg.Render.Blend == config.BlendGradient {
		s.blend = render.BlendSourceOver
	}
	s.burstGlow = cfg.Render.BurstGlow
	s.trailGlow = cfg.Render.TrailGlow
}

// Blend 当前混合模式
func (s *RenderSystem) Blend() render.BlendMode { return s.blend }

// Draw 清屏并绘制所有可见粒子，返回绘制的粒子数
func (s *RenderSystem) Draw(surface render.Surface) int {
	surface.Clear()

	drawn := 0
	for _, p := range s.pool.Particles() {
		g, ok := s.GlowFor(p)
		if !ok {
			continue
		}
		surface.DrawGlow(g)
		drawn++
	}

	if f, ok := surface.(render.Flusher); ok {
		f.Flush()
	}
	return drawn
}

// GlowFor 计算单个粒子的绘制命令；不可见时返回 false
//
// 爆炸粒子随 alpha 降低而膨胀：半径 r·(2-α)，渐变半径 r·(2.5-α)，
// 光晕 burstGlow·α。尾迹：半径 r，渐变半径 2r，光晕 glowSize。
// 指针爱心为实心爱心，半径 r·scale，始终普通混合。
func (s *RenderSystem) GlowFor(p *components.Particle) (render.Glow, bool) {
	if p.Stage == components.StageAscending || p.Alpha <= 0 || p.Radius <= 0 {
		return render.Glow{}, false
	}

	g := render.Glow{
		X:     p.X,
		Y:     p.Y,
		Color: p.RGB,
		Alpha: p.Alpha,
		Blend: s.blend,
	}
	switch p.Kind {
	case components.KindPointer:
		g.Shape = render.ShapeHeart
		g.Radius = p.Radius * p.Scale
		g.Blend = render.BlendSourceOver
		if p.Pointer != nil {
			g.Rotation = p.Pointer.Rotation
		}
		return g, true
	case components.KindTrail:
		g.Radius = p.Radius
		g.GradientRadius = p.Radius * 2
		if s.trailGlow && p.Trail != nil {
			g.Halo = p.Trail.GlowSize
		}
		return g, true
	}

	g.Radius = p.Radius * (2 - p.Alpha)
	g.GradientRadius = p.Radius * (2.5 - p.Alpha)
	g.Halo = s.burstGlow * p.Alpha
	return g, true
}
