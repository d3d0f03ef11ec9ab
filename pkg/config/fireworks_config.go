package config

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/decker502/fireworks/internal/particle"
	"gopkg.in/yaml.v3"
)

// ErrUnknownProfile 未找到指定名称的内置配置
var ErrUnknownProfile = errors.New("unknown profile")

//go:embed profiles/*.yaml
var profilesFS embed.FS

// DefaultProfile 默认内置配置名
const DefaultProfile = "rich"

// Config 烟花表演配置
//
// 顶层六项（spawnIntervalMs ~ trailLength）是对外公开的核心配置面，
// 其余分组用于调整尾迹、物理、渲染和各图案参数。
type Config struct {
	Profile string `yaml:"profile"` // 配置名（仅用于日志和调试面板）

	SpawnIntervalMs   float64     `yaml:"spawnIntervalMs"`   // 发射间隔（毫秒）
	MaxParticles      int         `yaml:"maxParticles"`      // 粒子池上限
	PoolGuardFraction float64     `yaml:"poolGuardFraction"` // 池占用低于 上限×该比例 时才发射
	TypeWeights       TypeWeights `yaml:"typeWeights"`       // 烟花类型权重（有序）
	Gravity           float64     `yaml:"gravity"`           // 每帧下落量（像素/帧）
	TrailLength       int         `yaml:"trailLength"`       // 发射尾迹粒子数，0 表示不生成尾迹

	Trail       TrailConfig            `yaml:"trail"`
	Physics     PhysicsConfig          `yaml:"physics"`
	KindPhysics map[string]KindPhysics `yaml:"kindPhysics"` // 按类型覆盖物理参数
	Render      RenderConfig           `yaml:"render"`
	ApexBand    particle.Range         `yaml:"apexBand"` // 爆炸高度范围（占表面高度比例，0 为顶部）
	Sparkle     SparkleConfig          `yaml:"sparkle"`
	Patterns    PatternsConfig         `yaml:"patterns"`

	PointerTrail PointerTrailConfig `yaml:"pointerTrail"`
}

// TrailConfig 发射尾迹参数
type TrailConfig struct {
	Opacity       float64 `yaml:"opacity"`       // 首个尾迹粒子的透明度
	Width         float64 `yaml:"width"`         // 首个尾迹粒子的半径
	RadiusFalloff float64 `yaml:"radiusFalloff"` // 末端相对首端减少的半径
	FadeSpeed     float64 `yaml:"fadeSpeed"`     // 每帧 alpha 线性衰减
	GlowSize      float64 `yaml:"glowSize"`      // 光晕半径
	SparkleChance float64 `yaml:"sparkleChance"` // 闪烁粒子比例
	FlickerMin    float64 `yaml:"flickerMin"`    // 闪烁时 alpha 乘数下限（上限为 1）
}

// PhysicsConfig 通用物理参数（按 60fps 一帧为单位）
type PhysicsConfig struct {
	AscentSpeed   float64 `yaml:"ascentSpeed"`   // 上升速度（像素/帧）
	AlphaDecay    float64 `yaml:"alphaDecay"`    // 爆炸后每帧 alpha 乘数
	VelocityDecay float64 `yaml:"velocityDecay"` // 爆炸后每帧速度乘数
	RemovalAlpha  float64 `yaml:"removalAlpha"`  // alpha 低于等于该值时移除
	TargetFrameMs float64 `yaml:"targetFrameMs"` // 基准帧时长
	MaxTimeScale  float64 `yaml:"maxTimeScale"`  // 时间缩放上限（掉帧追赶限制）
}

// KindPhysics 单个类型的物理覆盖（nil 字段沿用通用参数）
type KindPhysics struct {
	AlphaDecay    *float64 `yaml:"alphaDecay,omitempty"`
	VelocityDecay *float64 `yaml:"velocityDecay,omitempty"`
	RemovalAlpha  *float64 `yaml:"removalAlpha,omitempty"`
	GravityScale  *float64 `yaml:"gravityScale,omitempty"`
}

// RenderConfig 渲染参数
type RenderConfig struct {
	Blend         string  `yaml:"blend"`         // "additive" 或 "gradient"
	FallbackColor string  `yaml:"fallbackColor"` // 调色板颜色解析失败时使用
	BaseRadius    float64 `yaml:"baseRadius"`    // 爆炸粒子基础半径
	BurstGlow     float64 `yaml:"burstGlow"`     // 爆炸粒子光晕 = burstGlow × alpha
	TrailGlow     bool    `yaml:"trailGlow"`     // 尾迹是否绘制光晕
}

// SparkleConfig 火花（顶点二次爆发）和余烬参数
type SparkleConfig struct {
	Kinds       []string       `yaml:"kinds"`       // 会触发火花的烟花类型
	Count       int            `yaml:"count"`       // 每次火花爆发的粒子数
	Velocity    particle.Range `yaml:"velocity"`    // 火花速度
	Radius      float64        `yaml:"radius"`      // 火花半径
	EmberChance float64        `yaml:"emberChance"` // 菊花粒子每帧掉落余烬的概率
	Color       string         `yaml:"color"`       // 火花颜色，空表示沿用母粒子颜色
}

// PointerTrailConfig 指针移动时飘出的爱心
type PointerTrailConfig struct {
	Enabled    bool           `yaml:"enabled"`
	IntervalMs float64        `yaml:"intervalMs"` // 两次生成的最小间隔
	Colors     []string       `yaml:"colors"`
	Size       particle.Range `yaml:"size"`      // 爱心半宽（像素）
	DriftX     float64        `yaml:"driftX"`    // 水平初速度在 ±driftX/2 内随机
	Lift       particle.Range `yaml:"lift"`      // 向上的初速度
	Gravity    float64        `yaml:"gravity"`   // 每帧竖直速度增量
	FadeSpeed  float64        `yaml:"fadeSpeed"` // 每帧 alpha 线性衰减
	Spin       float64        `yaml:"spin"`      // 每帧旋转（弧度）
	MinScale   float64        `yaml:"minScale"`  // 缩放 = max(minScale, 1.2·alpha)
}

// PatternsConfig 各烟花图案参数
type PatternsConfig struct {
	Normal        NormalPattern        `yaml:"normal"`
	Heart         HeartPattern         `yaml:"heart"`
	Circle        CirclePattern        `yaml:"circle"`
	Double        DoublePattern        `yaml:"double"`
	Spiral        SpiralPattern        `yaml:"spiral"`
	Star          StarPattern          `yaml:"star"`
	Chrysanthemum ChrysanthemumPattern `yaml:"chrysanthemum"`
}

// NormalPattern 单环
type NormalPattern struct {
	Colors   []string       `yaml:"colors"`
	Count    int            `yaml:"count"`
	Velocity particle.Range `yaml:"velocity"`
	Scale    float64        `yaml:"scale"`
}

// HeartPattern 爱心曲线
type HeartPattern struct {
	Colors         []string       `yaml:"colors"`
	Count          int            `yaml:"count"`
	Scale          float64        `yaml:"scale"`
	Velocity       particle.Range `yaml:"velocity"`
	RadiusPerScale float64        `yaml:"radiusPerScale"` // 粒子半径 = radiusPerScale × scale
	FollowCurve    bool           `yaml:"followCurve"`    // 速度按曲线半径比例缩放，使爆炸保持爱心轮廓
}

// CirclePattern 同心环
type CirclePattern struct {
	Colors       []string       `yaml:"colors"`
	Rings        int            `yaml:"rings"`
	BaseCount    int            `yaml:"baseCount"`
	CountStep    int            `yaml:"countStep"`
	BaseVelocity float64        `yaml:"baseVelocity"`
	VelocityStep float64        `yaml:"velocityStep"`
	Jitter       particle.Range `yaml:"jitter"`
	BaseScale    float64        `yaml:"baseScale"`
	ScaleStep    float64        `yaml:"scaleStep"`
	HueStep      int            `yaml:"hueStep"`
}

// RingSpec 单个环
type RingSpec struct {
	Count    int            `yaml:"count"`
	Velocity particle.Range `yaml:"velocity"`
	Scale    float64        `yaml:"scale"`
}

// DoublePattern 内外双环
type DoublePattern struct {
	Colors   []string `yaml:"colors"`
	Inner    RingSpec `yaml:"inner"`
	Outer    RingSpec `yaml:"outer"`
	HueShift int      `yaml:"hueShift"` // 调色板只有一种颜色时，第二颜色的色相偏移
}

// SpiralPattern 螺旋臂
type SpiralPattern struct {
	Colors       []string       `yaml:"colors"`
	Arms         int            `yaml:"arms"`
	PerArm       int            `yaml:"perArm"`
	Rotations    float64        `yaml:"rotations"`
	BaseVelocity float64        `yaml:"baseVelocity"`
	VelocityStep float64        `yaml:"velocityStep"`
	BaseScale    float64        `yaml:"baseScale"`
	ScaleFalloff float64        `yaml:"scaleFalloff"`
	HueStep      int            `yaml:"hueStep"`
	Spin         particle.Range `yaml:"spin"` // 弧度/帧
}

// StarCluster 星形的外层或内层簇
type StarCluster struct {
	Jitter   float64        `yaml:"jitter"` // 角度抖动总宽度（弧度）
	Velocity particle.Range `yaml:"velocity"`
	Scale    float64        `yaml:"scale"`
	HueShift int            `yaml:"hueShift"`
}

// StarPattern 五角星
type StarPattern struct {
	Colors   []string    `yaml:"colors"`
	Points   int         `yaml:"points"`
	PerPoint int         `yaml:"perPoint"`
	Outer    StarCluster `yaml:"outer"`
	Inner    StarCluster `yaml:"inner"`
}

// ChrysanthemumPattern 菊花多层
type ChrysanthemumPattern struct {
	Colors       []string       `yaml:"colors"`
	Layers       int            `yaml:"layers"`
	PerLayer     int            `yaml:"perLayer"`
	BaseVelocity float64        `yaml:"baseVelocity"`
	VelocityStep float64        `yaml:"velocityStep"`
	Jitter       particle.Range `yaml:"jitter"`
	HueStep      int            `yaml:"hueStep"`
	BaseScale    float64        `yaml:"baseScale"`
	ScaleFalloff float64        `yaml:"scaleFalloff"`
	AngleJitter  float64        `yaml:"angleJitter"`
}

// Load 从 YAML 文件加载配置，文件中缺失的字段沿用默认值
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fireworks config file %s: %w", path, err)
	}
	cfg, err := Parse(data, Default())
	if err != nil {
		return nil, fmt.Errorf("invalid fireworks config in %s: %w", path, err)
	}
	log.Printf("[Config] 加载配置文件: %s (profile=%s)", path, cfg.Profile)
	return cfg, nil
}

// LoadProfile 加载内置配置（rich / classic）
func LoadProfile(name string) (*Config, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultProfile
	}
	data, err := profilesFS.ReadFile("profiles/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(Profiles(), ", "))
	}
	cfg, err := Parse(data, Default())
	if err != nil {
		return nil, fmt.Errorf("invalid built-in profile %s: %w", name, err)
	}
	if cfg.Profile == "" {
		cfg.Profile = name
	}
	log.Printf("[Config] 加载内置配置: %s", name)
	return cfg, nil
}

// Profiles 返回所有内置配置名（按字母排序）
func Profiles() []string {
	entries, err := profilesFS.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if n, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}

// Parse 将 YAML 数据覆盖到 base 上并校验
// base 为 nil 时从零值开始（所有必填项都必须在数据中给出）
func Parse(data []byte, base *Config) (*Config, error) {
	cfg := base
	if cfg == nil {
		cfg = &Config{}
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fireworks config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
