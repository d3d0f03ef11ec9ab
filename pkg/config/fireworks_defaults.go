package config

import (
	"github.com/decker502/fireworks/internal/particle"
	"github.com/decker502/fireworks/pkg/components"
)

// 默认画面尺寸（桌面窗口和无界面工具）
const (
	DefaultWidth  = 1280
	DefaultHeight = 720
)

// 渲染混合模式
const (
	BlendAdditive = "additive"
	BlendGradient = "gradient"
)

// Default 返回默认配置（与内置 rich 配置一致）
func Default() *Config {
	return &Config{
		Profile:           DefaultProfile,
		SpawnIntervalMs:   800,
		MaxParticles:      1000,
		PoolGuardFraction: 0.7,
		TypeWeights: TypeWeights{
			{Kind: components.KindHeart, Weight: 0.25},
			{Kind: components.KindCircle, Weight: 0.15},
			{Kind: components.KindDouble, Weight: 0.15},
			{Kind: components.KindSpiral, Weight: 0.15},
			{Kind: components.KindStar, Weight: 0.15},
			{Kind: components.KindChrysanthemum, Weight: 0.15},
		},
		Gravity:     0.2,
		TrailLength: 35,
		Trail: TrailConfig{
			Opacity:       1.0,
			Width:         5,
			RadiusFalloff: 3,
			FadeSpeed:     0.01,
			GlowSize:      25,
			SparkleChance: 0.3,
			FlickerMin:    0.9,
		},
		Physics: PhysicsConfig{
			AscentSpeed:   15,
			AlphaDecay:    0.985,
			VelocityDecay: 0.99,
			RemovalAlpha:  0.05,
			TargetFrameMs: 16.67,
			MaxTimeScale:  2,
		},
		KindPhysics: map[string]KindPhysics{
			"sparkle": {
				AlphaDecay:   floatPtr(0.94),
				GravityScale: floatPtr(0.5),
			},
		},
		Render: RenderConfig{
			Blend:         BlendAdditive,
			FallbackColor: "#ffffff",
			BaseRadius:    2.5,
			BurstGlow:     15,
			TrailGlow:     true,
		},
		ApexBand: particle.Between(0, 0.5),
		Sparkle: SparkleConfig{
			Kinds:       []string{"star", "chrysanthemum"},
			Count:       16,
			Velocity:    particle.Between(1, 4),
			Radius:      1.5,
			EmberChance: 0.02,
		},
		Patterns: PatternsConfig{
			Normal: NormalPattern{
				Colors:   []string{"#ff69b4", "#ffd700", "#4169e1", "#ff1493"},
				Count:    100,
				Velocity: particle.Between(4, 8),
				Scale:    1,
			},
			Heart: HeartPattern{
				Colors:         []string{"#ff69b4", "#ff1493", "#ff0000", "#ff007f"},
				Count:          120,
				Scale:          3,
				Velocity:       particle.Between(8, 11),
				RadiusPerScale: 3.5,
				FollowCurve:    true,
			},
			Circle: CirclePattern{
				Colors:       []string{"#ff69b4", "#4169e1", "#ffd700", "#ff1493"},
				Rings:        5,
				BaseCount:    50,
				CountStep:    20,
				BaseVelocity: 4,
				VelocityStep: 3,
				Jitter:       particle.Between(0, 3),
				BaseScale:    2,
				ScaleStep:    0.3,
				HueStep:      15,
			},
			Double: DoublePattern{
				Colors:   []string{"#ff69b4", "#ffd700", "#ff1493", "#4169e1"},
				Inner:    RingSpec{Count: 80, Velocity: particle.Between(3, 5), Scale: 1.5},
				Outer:    RingSpec{Count: 100, Velocity: particle.Between(10, 14), Scale: 1.2},
				HueShift: 40,
			},
			Spiral: SpiralPattern{
				Colors:       []string{"#ff1493", "#ffd700", "#4169e1"},
				Arms:         6,
				PerArm:       50,
				Rotations:    3,
				BaseVelocity: 3,
				VelocityStep: 0.2,
				BaseScale:    1.5,
				ScaleFalloff: 0.7,
				HueStep:      20,
				Spin:         particle.Between(0.01, 0.03),
			},
			Star: StarPattern{
				Colors:   []string{"#ffd700", "#ff69b4", "#4169e1"},
				Points:   5,
				PerPoint: 35,
				Outer:    StarCluster{Jitter: 0.2, Velocity: particle.Between(9, 13), Scale: 1.5},
				Inner:    StarCluster{Jitter: 1.5, Velocity: particle.Between(3, 6), Scale: 1.2, HueShift: 30},
			},
			Chrysanthemum: ChrysanthemumPattern{
				Colors:       []string{"#ff69b4", "#ffd700", "#ff1493"},
				Layers:       6,
				PerLayer:     60,
				BaseVelocity: 3,
				VelocityStep: 3,
				Jitter:       particle.Between(0, 2),
				HueStep:      25,
				BaseScale:    1.5,
				ScaleFalloff: 0.5,
				AngleJitter:  0.2,
			},
		},
		PointerTrail: PointerTrailConfig{
			Enabled:    true,
			IntervalMs: 30,
			Colors:     []string{"#ff69b4", "#ff1493", "#ff0000", "#ff007f", "#ff66ff", "#ff3366"},
			Size:       particle.Between(3.5, 8.5),
			DriftX:     3,
			Lift:       particle.Between(3, 7),
			Gravity:    0.15,
			FadeSpeed:  0.008,
			Spin:       0.05,
			MinScale:   0.2,
		},
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
