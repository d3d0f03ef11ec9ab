package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/pool"
)

// SparkleEmitter 生成火花和余烬（由 entities.FireworkFactory 实现）
type SparkleEmitter interface {
	CreateSparkleBurst(x, y float64, hex string, rgb color.RGBA) int
	CreateEmber(x, y float64, hex string, rgb color.RGBA) bool
}

// ParticleSystem 每帧推进所有存活粒子
//
// 更新与移除在同一次 Pool.Sweep 中完成：alpha 越过移除阈值的粒子
// 在当帧被压缩出池，不会再被绘制。更新期间生成的火花/余烬追加在池尾，
// 从下一帧开始更新。
type ParticleSystem struct {
	pool    *pool.Pool
	sparkle SparkleEmitter
	rng     *rand.Rand

	gravity     float64
	ascentSpeed float64
	flickerMin  float64
	emberChance float64
	physics     config.PhysicsTable
	pointer     config.PointerTrailConfig
}

// NewParticleSystem 创建粒子系统
func NewParticleSystem(p *pool.Pool, cfg *config.Config, sparkle SparkleEmitter, rng *rand.Rand) *ParticleSystem {
	ps := &ParticleSystem{
		pool:    p,
		sparkle: sparkle,
		rng:     rng,
	}
	ps.SetConfig(cfg)
	return ps
}

// SetConfig 切换配置；已存在的粒子从下一帧起使用新参数
func (ps *ParticleSystem) SetConfig(cfg *config.Config) {
	ps.gravity = cfg.Gravity
	ps.ascentSpeed = cfg.Physics.AscentSpeed
	ps.flickerMin = cfg.Trail.FlickerMin
	ps.emberChance = cfg.Sparkle.EmberChance
	ps.physics = cfg.ResolvePhysics()
	ps.pointer = cfg.PointerTrail
}

// Update 推进一帧，timeScale 为相对 60fps 基准帧的时间比例
// 返回本帧移除的粒子数
func (ps *ParticleSystem) Update(timeScale float64) int {
	if ps.pool.Len() == 0 {
		return 0
	}
	return ps.pool.Sweep(func(p *components.Particle) bool {
		return ps.updateParticle(p, timeScale)
	})
}

// updateParticle 更新单个粒子，返回是否继续存活
func (ps *ParticleSystem) updateParticle(p *components.Particle, ts float64) bool {
	switch p.Kind {
	case components.KindPointer:
		return ps.updatePointer(p, ts)
	case components.KindTrail:
		return ps.updateTrail(p)
	}
	if p.Stage == components.StageAscending {
		ps.ascend(p, ts)
		return true
	}
	return ps.updateExploded(p, ts)
}

// updateTrail 尾迹原地线性淡出，闪烁粒子再乘以 [flickerMin,1) 的随机因子
func (ps *ParticleSystem) updateTrail(p *components.Particle) bool {
	fade := 0.0
	sparkle := false
	if p.Trail != nil {
		fade = p.Trail.FadeSpeed
		sparkle = p.Trail.Sparkle
	}
	p.Alpha -= fade
	if sparkle && p.Alpha > 0 {
		p.Alpha *= ps.flickerMin + (1-ps.flickerMin)*ps.rng.Float64()
	}
	if p.Alpha <= 0 {
		p.Alpha = 0
		return false
	}
	return true
}

// updatePointer 指针爱心：受重力的直线漂移，边转边淡出，缩放随 alpha 收缩
func (ps *ParticleSystem) updatePointer(p *components.Particle, ts float64) bool {
	pc := ps.pointer
	if p.Pointer != nil {
		p.X += p.Pointer.VX * ts
		p.Y += p.Pointer.VY * ts
		p.Pointer.VY += pc.Gravity * ts
		p.Pointer.Rotation += pc.Spin * ts
	}
	p.Alpha -= pc.FadeSpeed
	if p.Alpha <= 0 {
		p.Alpha = 0
		return false
	}
	p.Scale = max(pc.MinScale, p.Alpha*1.2)
	return true
}

// ascend 上升阶段；到达 TargetY 后转为爆炸，领头粒子触发火花
func (ps *ParticleSystem) ascend(p *components.Particle, ts float64) {
	p.Y -= ps.ascentSpeed * ts
	if p.Y > p.TargetY {
		return
	}
	p.Y = p.TargetY
	p.Stage = components.StageExploded
	if p.IsLeader() && ps.sparkle != nil {
		p.Burst.Leader = false
		ps.sparkle.CreateSparkleBurst(p.X, p.Y, p.Color, p.RGB)
	}
}

func (ps *ParticleSystem) updateExploded(p *components.Particle, ts float64) bool {
	phys := ps.physicsFor(p.Kind)

	p.X += math.Cos(p.Angle) * p.Velocity * ts
	p.Y += (math.Sin(p.Angle)*p.Velocity + ps.gravity*phys.GravityScale) * ts
	p.Velocity *= phys.VelocityDecay
	p.Alpha *= phys.AlphaDecay

	if p.Spiral != nil {
		p.Angle += p.Spiral.Spin * ts
	}
	if p.Kind == components.KindChrysanthemum && ps.sparkle != nil &&
		ps.emberChance > 0 && ps.rng.Float64() < ps.emberChance {
		ps.sparkle.CreateEmber(p.X, p.Y, p.Color, p.RGB)
	}

	return p.Alpha > phys.RemovalAlpha
}

func (ps *ParticleSystem) physicsFor(kind components.Kind) config.ResolvedPhysics {
	if kind < 0 || int(kind) >= len(ps.physics) {
		return ps.physics[components.KindNormal]
	}
	return ps.physics[kind]
}
