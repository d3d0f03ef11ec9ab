package config

import (
	"fmt"
	"math"

	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/utils"
)

// ResolvedPhysics 某个粒子类型最终生效的物理参数
type ResolvedPhysics struct {
	AlphaDecay    float64
	VelocityDecay float64
	RemovalAlpha  float64
	GravityScale  float64
}

// PhysicsTable 按 Kind 索引的物理参数表
type PhysicsTable [components.NumKinds]ResolvedPhysics

// ResolvePhysics 合并通用物理参数和按类型覆盖
// 调用前应先通过 Validate（覆盖表中的类型名已校验）
func (c *Config) ResolvePhysics() PhysicsTable {
	var table PhysicsTable
	for i := range table {
		table[i] = ResolvedPhysics{
			AlphaDecay:    c.Physics.AlphaDecay,
			VelocityDecay: c.Physics.VelocityDecay,
			RemovalAlpha:  c.Physics.RemovalAlpha,
			GravityScale:  1,
		}
	}
	for name, o := range c.KindPhysics {
		kind, err := components.ParseKind(name)
		if err != nil {
			continue
		}
		r := &table[kind]
		if o.AlphaDecay != nil {
			r.AlphaDecay = *o.AlphaDecay
		}
		if o.VelocityDecay != nil {
			r.VelocityDecay = *o.VelocityDecay
		}
		if o.RemovalAlpha != nil {
			r.RemovalAlpha = *o.RemovalAlpha
		}
		if o.GravityScale != nil {
			r.GravityScale = *o.GravityScale
		}
	}
	// 尾迹只做线性淡出，alpha <= 0 即移除
	table[components.KindTrail].RemovalAlpha = 0
	return table
}

// SparkleKinds 返回会触发火花的类型集合
func (c *Config) SparkleKinds() map[components.Kind]bool {
	kinds := make(map[components.Kind]bool, len(c.Sparkle.Kinds))
	for _, name := range c.Sparkle.Kinds {
		if k, err := components.ParseKind(name); err == nil {
			kinds[k] = true
		}
	}
	return kinds
}

// GuardThreshold 池占用低于该值时允许发射
func (c *Config) GuardThreshold() int {
	return int(math.Floor(float64(c.MaxParticles) * c.PoolGuardFraction))
}

// Clone 深拷贝配置
func (c *Config) Clone() *Config {
	out := *c
	out.TypeWeights = append(TypeWeights(nil), c.TypeWeights...)
	out.KindPhysics = make(map[string]KindPhysics, len(c.KindPhysics))
	for k, v := range c.KindPhysics {
		out.KindPhysics[k] = v
	}
	out.Sparkle.Kinds = append([]string(nil), c.Sparkle.Kinds...)
	p := &out.Patterns
	p.Normal.Colors = append([]string(nil), c.Patterns.Normal.Colors...)
	p.Heart.Colors = append([]string(nil), c.Patterns.Heart.Colors...)
	p.Circle.Colors = append([]string(nil), c.Patterns.Circle.Colors...)
	p.Double.Colors = append([]string(nil), c.Patterns.Double.Colors...)
	p.Spiral.Colors = append([]string(nil), c.Patterns.Spiral.Colors...)
	p.Star.Colors = append([]string(nil), c.Patterns.Star.Colors...)
	p.Chrysanthemum.Colors = append([]string(nil), c.Patterns.Chrysanthemum.Colors...)
	out.PointerTrail.Colors = append([]string(nil), c.PointerTrail.Colors...)
	return &out
}

// Validate 校验配置并规范化权重表（总和归一为 1）
func (c *Config) Validate() error {
	if c.SpawnIntervalMs <= 0 {
		return fmt.Errorf("spawnIntervalMs must be positive, got %v", c.SpawnIntervalMs)
	}
	if c.MaxParticles <= 0 {
		return fmt.Errorf("maxParticles must be positive, got %d", c.MaxParticles)
	}
	if c.PoolGuardFraction <= 0 || c.PoolGuardFraction > 1 {
		return fmt.Errorf("poolGuardFraction must be in (0, 1], got %v", c.PoolGuardFraction)
	}
	if c.TrailLength < 0 {
		return fmt.Errorf("trailLength cannot be negative, got %d", c.TrailLength)
	}

	if err := validateWeights(c.TypeWeights); err != nil {
		return err
	}
	c.TypeWeights = c.TypeWeights.Normalized()

	ph := c.Physics
	if ph.AscentSpeed <= 0 {
		return fmt.Errorf("physics.ascentSpeed must be positive, got %v", ph.AscentSpeed)
	}
	if err := checkAlphaDecay("physics.alphaDecay", ph.AlphaDecay); err != nil {
		return err
	}
	if err := checkDecay("physics.velocityDecay", ph.VelocityDecay); err != nil {
		return err
	}
	if err := checkRemovalAlpha("physics.removalAlpha", ph.RemovalAlpha); err != nil {
		return err
	}
	if ph.TargetFrameMs <= 0 || ph.MaxTimeScale <= 0 {
		return fmt.Errorf("physics.targetFrameMs and physics.maxTimeScale must be positive")
	}

	for name, o := range c.KindPhysics {
		kind, err := components.ParseKind(name)
		if err != nil {
			return fmt.Errorf("kindPhysics: %w", err)
		}
		if kind == components.KindPointer {
			return fmt.Errorf("kindPhysics: pointer hearts are tuned under pointerTrail")
		}
		if o.AlphaDecay != nil {
			if err := checkAlphaDecay("kindPhysics."+name+".alphaDecay", *o.AlphaDecay); err != nil {
				return err
			}
		}
		if o.VelocityDecay != nil {
			if err := checkDecay("kindPhysics."+name+".velocityDecay", *o.VelocityDecay); err != nil {
				return err
			}
		}
		if o.RemovalAlpha != nil {
			if err := checkRemovalAlpha("kindPhysics."+name+".removalAlpha", *o.RemovalAlpha); err != nil {
				return err
			}
		}
	}

	tr := c.Trail
	if c.TrailLength > 0 && tr.FadeSpeed <= 0 {
		return fmt.Errorf("trail.fadeSpeed must be positive, got %v", tr.FadeSpeed)
	}
	if tr.SparkleChance < 0 || tr.SparkleChance > 1 {
		return fmt.Errorf("trail.sparkleChance must be in [0, 1], got %v", tr.SparkleChance)
	}
	if tr.FlickerMin < 0 || tr.FlickerMin > 1 {
		return fmt.Errorf("trail.flickerMin must be in [0, 1], got %v", tr.FlickerMin)
	}

	switch c.Render.Blend {
	case BlendAdditive, BlendGradient:
	default:
		return fmt.Errorf("render.blend must be one of: %s, %s, got %q", BlendAdditive, BlendGradient, c.Render.Blend)
	}
	if _, _, _, err := utils.ParseHexToChannels(c.Render.FallbackColor); err != nil {
		return fmt.Errorf("render.fallbackColor: %w", err)
	}

	if c.ApexBand.Min < 0 || c.ApexBand.Max > 1 {
		return fmt.Errorf("apexBand must lie within [0, 1], got [%v %v]", c.ApexBand.Min, c.ApexBand.Max)
	}

	for _, name := range c.Sparkle.Kinds {
		k, err := components.ParseKind(name)
		if err != nil {
			return fmt.Errorf("sparkle.kinds: %w", err)
		}
		if !k.IsFirework() {
			return fmt.Errorf("sparkle.kinds: %s is not a firework kind", k)
		}
	}
	if c.Sparkle.Count < 0 {
		return fmt.Errorf("sparkle.count cannot be negative, got %d", c.Sparkle.Count)
	}
	if c.Sparkle.EmberChance < 0 || c.Sparkle.EmberChance > 1 {
		return fmt.Errorf("sparkle.emberChance must be in [0, 1], got %v", c.Sparkle.EmberChance)
	}

	if err := c.PointerTrail.validate(); err != nil {
		return err
	}
	return c.Patterns.validate()
}

func (pt *PointerTrailConfig) validate() error {
	if !pt.Enabled {
		return nil
	}
	if pt.IntervalMs < 0 {
		return fmt.Errorf("pointerTrail.intervalMs cannot be negative, got %v", pt.IntervalMs)
	}
	if len(pt.Colors) == 0 {
		return fmt.Errorf("pointerTrail.colors must not be empty")
	}
	if pt.Size.Min <= 0 {
		return fmt.Errorf("pointerTrail.size must be positive, got %v", pt.Size)
	}
	if pt.FadeSpeed <= 0 {
		return fmt.Errorf("pointerTrail.fadeSpeed must be positive, got %v", pt.FadeSpeed)
	}
	if pt.MinScale < 0 || pt.MinScale > 1 {
		return fmt.Errorf("pointerTrail.minScale must be in [0, 1], got %v", pt.MinScale)
	}
	return nil
}

func validateWeights(w TypeWeights) error {
	if len(w) == 0 {
		return fmt.Errorf("typeWeights must not be empty")
	}
	seen := make(map[components.Kind]bool, len(w))
	for _, e := range w {
		if !e.Kind.IsFirework() {
			return fmt.Errorf("typeWeights: %s is not a firework kind", e.Kind)
		}
		if seen[e.Kind] {
			return fmt.Errorf("typeWeights: duplicate kind %s", e.Kind)
		}
		seen[e.Kind] = true
		if e.Weight < 0 || math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) {
			return fmt.Errorf("typeWeights: weight for %s must be a non-negative number, got %v", e.Kind, e.Weight)
		}
	}
	if w.Total() <= 0 {
		return fmt.Errorf("typeWeights: total weight must be positive")
	}
	return nil
}

func checkDecay(name string, v float64) error {
	if v <= 0 || v > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
	}
	return nil
}

// alpha 每帧必须严格减小，否则粒子永远不会被移除
func checkAlphaDecay(name string, v float64) error {
	if v <= 0 || v >= 1 {
		return fmt.Errorf("%s must be in (0, 1), got %v", name, v)
	}
	return nil
}

func checkRemovalAlpha(name string, v float64) error {
	if v < 0 || v >= 1 {
		return fmt.Errorf("%s must be in [0, 1), got %v", name, v)
	}
	return nil
}

func (p *PatternsConfig) validate() error {
	palettes := map[string][]string{
		"normal":        p.Normal.Colors,
		"heart":         p.Heart.Colors,
		"circle":        p.Circle.Colors,
		"double":        p.Double.Colors,
		"spiral":        p.Spiral.Colors,
		"star":          p.Star.Colors,
		"chrysanthemum": p.Chrysanthemum.Colors,
	}
	// 调色板中格式错误的颜色在运行时回退并上报，这里只要求非空
	for name, colors := range palettes {
		if len(colors) == 0 {
			return fmt.Errorf("patterns.%s.colors must not be empty", name)
		}
	}

	counts := []struct {
		name string
		v    int
	}{
		{"normal.count", p.Normal.Count},
		{"heart.count", p.Heart.Count},
		{"circle.rings", p.Circle.Rings},
		{"double.inner.count", p.Double.Inner.Count},
		{"double.outer.count", p.Double.Outer.Count},
		{"spiral.arms", p.Spiral.Arms},
		{"spiral.perArm", p.Spiral.PerArm},
		{"star.points", p.Star.Points},
		{"star.perPoint", p.Star.PerPoint},
		{"chrysanthemum.layers", p.Chrysanthemum.Layers},
		{"chrysanthemum.perLayer", p.Chrysanthemum.PerLayer},
	}
	for _, c := range counts {
		if c.v <= 0 {
			return fmt.Errorf("patterns.%s must be positive, got %d", c.name, c.v)
		}
	}
	if p.Circle.BaseCount <= 0 || p.Circle.CountStep < 0 {
		return fmt.Errorf("patterns.circle: baseCount must be positive and countStep non-negative")
	}
	return nil
}
