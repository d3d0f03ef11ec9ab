package entities

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/decker502/fireworks/internal/particle"
	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/pool"
	"github.com/decker502/fireworks/pkg/utils"
)

// FireworkFactory 烟花图案生成器
//
// 每个 CreateXFirework 先生成发射尾迹（trailLength > 0 时），再生成爆炸粒子。
// 所有粒子都从发射点以上升阶段出发，到达 targetY 后按各自角度和速度散开。
// 粒子池满时插入静默失败，返回值为实际插入的粒子数。
type FireworkFactory struct {
	pool    *pool.Pool
	cfg     *config.Config
	rng     *rand.Rand
	onError func(error)

	fallback     color.RGBA
	sparkleKinds map[components.Kind]bool
}

// NewFireworkFactory 创建图案生成器
// onError 用于上报调色板颜色解析失败（可为 nil）
func NewFireworkFactory(p *pool.Pool, cfg *config.Config, rng *rand.Rand, onError func(error)) *FireworkFactory {
	f := &FireworkFactory{
		pool:    p,
		rng:     rng,
		onError: onError,
	}
	f.SetConfig(cfg)
	return f
}

// SetConfig 切换配置（运行时切换 profile）
func (f *FireworkFactory) SetConfig(cfg *config.Config) {
	f.cfg = cfg
	// Validate 已保证回退颜色合法
	f.fallback, _ = utils.ResolveColor(cfg.Render.FallbackColor, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	f.sparkleKinds = cfg.SparkleKinds()
}

// Launch 按类型生成一个烟花
// originX/originY 为发射点，apexY 为爆炸高度
func (f *FireworkFactory) Launch(kind components.Kind, originX, originY, apexY float64) int {
	switch kind {
	case components.KindNormal:
		return f.CreateNormalFirework(originX, originY, apexY)
	case components.KindHeart:
		return f.CreateHeartFirework(originX, originY, apexY)
	case components.KindCircle:
		return f.CreateCircleFirework(originX, originY, apexY)
	case components.KindDouble:
		return f.CreateDoubleFirework(originX, originY, apexY)
	case components.KindSpiral:
		return f.CreateSpiralFirework(originX, originY, apexY)
	case components.KindStar:
		return f.CreateStarFirework(originX, originY, apexY)
	case components.KindChrysanthemum:
		return f.CreateChrysanthemumFirework(originX, originY, apexY)
	}
	log.Printf("[FireworkFactory] 忽略不可发射的类型: %v", kind)
	return 0
}

// CreateLaunchTrail 生成从发射点到爆炸高度等距分布的尾迹粒子
// 第 i 个粒子半径 width - falloff·i/n，透明度 opacity·(1 - i/n)
func (f *FireworkFactory) CreateLaunchTrail(x, y, targetY float64, hex string) int {
	n := f.cfg.TrailLength
	if n <= 0 {
		return 0
	}
	tr := f.cfg.Trail
	rgb := f.resolve(hex)
	spacing := (y - targetY) / float64(n)

	added := 0
	for i := 0; i < n; i++ {
		if f.pool.Full() {
			break
		}
		frac := float64(i) / float64(n)
		p := &components.Particle{
			X:       x,
			Y:       y - float64(i)*spacing,
			TargetY: targetY,
			Color:   hex,
			RGB:     rgb,
			Radius:  tr.Width - frac*tr.RadiusFalloff,
			Scale:   1,
			Alpha:   tr.Opacity * (1 - frac),
			Stage:   components.StageExploded,
			Kind:    components.KindTrail,
			Trail: &components.TrailPayload{
				FadeSpeed: tr.FadeSpeed,
				Sparkle:   f.rng.Float64() < tr.SparkleChance,
				GlowSize:  tr.GlowSize,
			},
		}
		if f.pool.Add(p) {
			added++
		}
	}
	return added
}

// CreateNormalFirework 单环：N 个粒子均匀分布在整圆上
func (f *FireworkFactory) CreateNormalFirework(x, y, targetY float64) int {
	pc := f.cfg.Patterns.Normal
	hex := f.pick(pc.Colors)
	b := f.newBurst(components.KindNormal, x, y, targetY, hex)

	rgb := f.resolve(hex)
	for i := 0; i < pc.Count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(pc.Count)
		b.emit(hex, rgb, angle, pc.Velocity.Random(f.rng), pc.Scale)
	}
	return b.added
}

// HeartCurvePoint 爱心参数曲线上 theta 处的偏移（屏幕坐标，Y 向下）
//
//	hx = -s·16·sin³θ
//	hy = -s·(13cosθ - 5cos2θ - 2cos3θ - cos4θ)·1.2
//
// θ=0 为顶部凹口，θ=π/2 为左瓣，θ=π 为底部尖端，θ=3π/2 为右瓣。
func HeartCurvePoint(theta, scale float64) (hx, hy float64) {
	s := math.Sin(theta)
	hx = -scale * 16 * s * s * s
	hy = -scale * (13*math.Cos(theta) - 5*math.Cos(2*theta) - 2*math.Cos(3*theta) - math.Cos(4*theta)) * 1.2
	return hx, hy
}

// CreateHeartFirework 爱心：粒子沿爱心曲线方向散开
// followCurve 时速度按该点曲线半径与平均半径之比缩放，使轮廓保持爱心形状
func (f *FireworkFactory) CreateHeartFirework(x, y, targetY float64) int {
	pc := f.cfg.Patterns.Heart
	hex := f.pick(pc.Colors)
	b := f.newBurst(components.KindHeart, x, y, targetY, hex)
	if pc.Count <= 0 {
		return b.added
	}

	type point struct{ angle, r float64 }
	points := make([]point, pc.Count)
	meanR := 0.0
	for i := range points {
		theta := 2 * math.Pi * float64(i) / float64(pc.Count)
		hx, hy := HeartCurvePoint(theta, pc.Scale)
		points[i] = point{angle: math.Atan2(hy, hx), r: math.Hypot(hx, hy)}
		meanR += points[i].r
	}
	meanR /= float64(len(points))

	rgb := f.resolve(hex)
	for _, pt := range points {
		v := pc.Velocity.Random(f.rng)
		if pc.FollowCurve && meanR > 0 {
			v *= pt.r / meanR
		}
		b.emit(hex, rgb, pt.angle, v, pc.Scale)
	}
	return b.added
}

// CreateCircleFirework 同心环：外环粒子更多、更快、更小，颜色逐环偏移
func (f *FireworkFactory) CreateCircleFirework(x, y, targetY float64) int {
	pc := f.cfg.Patterns.Circle
	hex := f.pick(pc.Colors)
	b := f.newBurst(components.KindCircle, x, y, targetY, hex)

	for ring := 0; ring < pc.Rings; ring++ {
		count := pc.BaseCount + ring*pc.CountStep
		baseVelocity := pc.BaseVelocity + float64(ring)*pc.VelocityStep
		scale := pc.BaseScale - float64(ring)*pc.ScaleStep
		ringHex := utils.ShiftHue(hex, ring*pc.HueStep)
		rgb := f.resolve(ringHex)
		for i := 0; i < count; i++ {
			angle := 2 * math.Pi * float64(i) / float64(count)
			b.emit(ringHex, rgb, angle, baseVelocity+pc.Jitter.Random(f.rng), scale)
		}
	}
	return b.added
}

// CreateDoubleFirework 双环：慢速内环和快速外环使用两种不同颜色
func (f *FireworkFactory) CreateDoubleFirework(x, y, targetY float64) int {
	pc := f.cfg.Patterns.Double
	hex1 := f.pick(pc.Colors)
	hex2 := f.pickOther(pc.Colors, hex1, pc.HueShift)
	b := f.newBurst(components.KindDouble, x, y, targetY, hex1)

	rings := []struct {
		spec config.RingSpec
		hex  string
	}{
		{pc.Inner, hex1},
		{pc.Outer, hex2},
	}
	for _, r := range rings {
		rgb := f.resolve(r.hex)
		for i := 0; i < r.spec.Count; i++ {
			angle := 2 * math.Pi * float64(i) / float64(r.spec.Count)
			b.emit(r.hex, rgb, angle, r.spec.Velocity.Random(f.rng), r.spec.Scale)
		}
	}
	return b.added
}

// CreateSpiralFirework 螺旋：多条旋臂，臂上粒子角度递增、速度递增、尺寸递减
func (f *FireworkFactory) CreateSpiralFirework(x, y, targetY float64) int {
	pc := f.cfg.Patterns.Spiral
	hex := f.pick(pc.Colors)
	b := f.newBurst(components.KindSpiral, x, y, targetY, hex)

	for arm := 0; arm < pc.Arms; arm++ {
		baseAngle := 2 * math.Pi * float64(arm) / float64(pc.Arms)
		armHex := utils.ShiftHue(hex, arm*pc.HueStep)
		rgb := f.resolve(armHex)
		for i := 0; i < pc.PerArm; i++ {
			frac := float64(i) / float64(pc.PerArm)
			angle := baseAngle + float64(i)*2*math.Pi*pc.Rotations/float64(pc.PerArm)
			velocity := pc.BaseVelocity + float64(i)*pc.VelocityStep
			scale := pc.BaseScale - frac*pc.ScaleFalloff
			if p := b.emit(armHex, rgb, angle, velocity, scale); p != nil {
				p.Spiral = &components.SpiralPayload{Spin: pc.Spin.Random(f.rng)}
			}
		}
	}
	return b.added
}

// CreateStarFirework 星形：每个尖角一簇快速外层粒子和一簇慢速发散内层粒子
func (f *FireworkFactory) CreateStarFirework(x, y, targetY float64) int {
	pc := f.cfg.Patterns.Star
	hex := f.pick(pc.Colors)
	b := f.newBurst(components.KindStar, x, y, targetY, hex)

	outerHex := utils.ShiftHue(hex, pc.Outer.HueShift)
	outerRGB := f.resolve(outerHex)
	innerHex := utils.ShiftHue(hex, pc.Inner.HueShift)
	innerRGB := f.resolve(innerHex)

	for i := 0; i < pc.Points; i++ {
		baseAngle := 2 * math.Pi * float64(i) / float64(pc.Points)
		for j := 0; j < pc.PerPoint; j++ {
			angle := baseAngle + (f.rng.Float64()-0.5)*pc.Outer.Jitter
			b.emit(outerHex, outerRGB, angle, pc.Outer.Velocity.Random(f.rng), pc.Outer.Scale)
		}
		for j := 0; j < pc.PerPoint; j++ {
			angle := baseAngle + (f.rng.Float64()-0.5)*pc.Inner.Jitter
			b.emit(innerHex, innerRGB, angle, pc.Inner.Velocity.Random(f.rng), pc.Inner.Scale)
		}
	}
	return b.added
}

// CreateChrysanthemumFirework 菊花：多层同心环，逐层加速、变色、缩小，角度轻微抖动
func (f *FireworkFactory) CreateChrysanthemumFirework(x, y, targetY float64) int {
	pc := f.cfg.Patterns.Chrysanthemum
	hex := f.pick(pc.Colors)
	b := f.newBurst(components.KindChrysanthemum, x, y, targetY, hex)

	for layer := 0; layer < pc.Layers; layer++ {
		baseVelocity := pc.BaseVelocity + float64(layer)*pc.VelocityStep
		layerHex := utils.ShiftHue(hex, layer*pc.HueStep)
		rgb := f.resolve(layerHex)
		scale := pc.BaseScale - float64(layer)/float64(pc.Layers)*pc.ScaleFalloff
		for i := 0; i < pc.PerLayer; i++ {
			angle := 2*math.Pi*float64(i)/float64(pc.PerLayer) + (f.rng.Float64()-0.5)*pc.AngleJitter
			b.emit(layerHex, rgb, angle, baseVelocity+pc.Jitter.Random(f.rng), scale)
		}
	}
	return b.added
}

// CreateSparkleBurst 在爆炸点生成一圈火花（由 ParticleSystem 在领头粒子爆炸时调用）
func (f *FireworkFactory) CreateSparkleBurst(x, y float64, hex string, rgb color.RGBA) int {
	sc := f.cfg.Sparkle
	if sc.Color != "" {
		hex = sc.Color
		rgb = f.resolve(hex)
	}
	added := 0
	for i := 0; i < sc.Count; i++ {
		angle := 2*math.Pi*float64(i)/float64(sc.Count) + f.rng.Float64()*0.3
		if f.addSparkle(x, y, hex, rgb, angle, sc.Velocity.Random(f.rng), false) {
			added++
		}
	}
	return added
}

// CreateEmber 生成一个向下飘落的余烬
func (f *FireworkFactory) CreateEmber(x, y float64, hex string, rgb color.RGBA) bool {
	angle := math.Pi/2 + (f.rng.Float64()-0.5)*0.6
	return f.addSparkle(x, y, hex, rgb, angle, particle.RandomInRange(f.rng, 0.2, 1), true)
}

// CreatePointerHeart 在指针位置生成一颗向上飘起的爱心
// 池满时返回 false
func (f *FireworkFactory) CreatePointerHeart(x, y float64) bool {
	if f.pool.Full() {
		return false
	}
	pc := f.cfg.PointerTrail
	hex := f.pick(pc.Colors)
	return f.pool.Add(&components.Particle{
		X:       x,
		Y:       y,
		TargetY: y,
		Color:   hex,
		RGB:     f.resolve(hex),
		Radius:  pc.Size.Random(f.rng),
		Scale:   1,
		Alpha:   1,
		Stage:   components.StageExploded,
		Kind:    components.KindPointer,
		Pointer: &components.PointerPayload{
			VX:       (f.rng.Float64() - 0.5) * pc.DriftX,
			VY:       -pc.Lift.Random(f.rng),
			Rotation: f.rng.Float64() * 2 * math.Pi,
		},
	})
}

func (f *FireworkFactory) addSparkle(x, y float64, hex string, rgb color.RGBA, angle, velocity float64, ember bool) bool {
	if f.pool.Full() {
		return false
	}
	return f.pool.Add(&components.Particle{
		X:        x,
		Y:        y,
		TargetY:  y,
		Color:    hex,
		RGB:      rgb,
		Radius:   f.cfg.Sparkle.Radius,
		Scale:    1,
		Angle:    angle,
		Velocity: velocity,
		Alpha:    1,
		Stage:    components.StageExploded,
		Kind:     components.KindSparkle,
		Sparkle:  &components.SparklePayload{Ember: ember},
	})
}

// burst 一次爆炸的生成上下文
type burst struct {
	f       *FireworkFactory
	kind    components.Kind
	x, y    float64
	targetY float64
	radius  float64
	leader  bool // 是否还需要标记领头粒子
	added   int
}

func (f *FireworkFactory) newBurst(kind components.Kind, x, y, targetY float64, hex string) *burst {
	b := &burst{
		f:       f,
		kind:    kind,
		x:       x,
		y:       y,
		targetY: targetY,
		radius:  f.cfg.Render.BaseRadius,
		leader:  f.sparkleKinds[kind],
	}
	b.added = f.CreateLaunchTrail(x, y, targetY, hex)
	return b
}

// emit 插入一个上升阶段的爆炸粒子；池满时返回 nil
func (b *burst) emit(hex string, rgb color.RGBA, angle, velocity, scale float64) *components.Particle {
	if b.f.pool.Full() {
		return nil
	}
	radius := b.radius
	if b.kind == components.KindHeart {
		radius = b.f.cfg.Patterns.Heart.RadiusPerScale * scale
	}
	p := &components.Particle{
		X:        b.x,
		Y:        b.y,
		TargetY:  b.targetY,
		Color:    hex,
		RGB:      rgb,
		Radius:   radius,
		Scale:    scale,
		Angle:    angle,
		Velocity: velocity,
		Alpha:    1,
		Stage:    components.StageAscending,
		Kind:     b.kind,
	}
	if b.leader {
		p.Burst = &components.BurstPayload{Leader: true}
	}
	if !b.f.pool.Add(p) {
		return nil
	}
	b.leader = false
	b.added++
	return p
}

// resolve 解析颜色，失败时回退并上报
func (f *FireworkFactory) resolve(hex string) color.RGBA {
	rgb, err := utils.ResolveColor(hex, f.fallback)
	if err != nil && f.onError != nil {
		f.onError(fmt.Errorf("firework palette: %w", err))
	}
	return rgb
}

func (f *FireworkFactory) pick(colors []string) string {
	if len(colors) == 0 {
		return f.cfg.Render.FallbackColor
	}
	return colors[f.rng.Intn(len(colors))]
}

// pickOther 选择与 first 不同的颜色；调色板中没有其他颜色时返回色相偏移后的 first
func (f *FireworkFactory) pickOther(colors []string, first string, hueShift int) string {
	others := make([]string, 0, len(colors))
	for _, c := range colors {
		if c != first {
			others = append(others, c)
		}
	}
	if len(others) == 0 {
		return utils.ShiftHue(first, hueShift)
	}
	return others[f.rng.Intn(len(others))]
}
