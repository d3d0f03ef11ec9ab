package components

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// ErrUnknownKind 未知的粒子/烟花类型名
var ErrUnknownKind = errors.New("unknown particle kind")

// Kind 粒子类型
// 烟花类型（Normal ~ Chrysanthemum）同时也是爆炸图案的类型
type Kind int

const (
	KindTrail Kind = iota
	KindNormal
	KindHeart
	KindCircle
	KindDouble
	KindSpiral
	KindStar
	KindChrysanthemum
	KindSparkle
	// KindPointer 跟随指针飘落的爱心（不属于烟花）
	KindPointer

	// NumKinds 类型总数，用于按类型索引的查找表
	NumKinds = int(KindPointer) + 1
)

var kindNames = [...]string{
	KindTrail:         "trail",
	KindNormal:        "normal",
	KindHeart:         "heart",
	KindCircle:        "circle",
	KindDouble:        "double",
	KindSpiral:        "spiral",
	KindStar:          "star",
	KindChrysanthemum: "chrysanthemum",
	KindSparkle:       "sparkle",
	KindPointer:       "pointer",
}

// FireworkKinds 可以被发射的烟花类型（按默认权重表顺序）
var FireworkKinds = []Kind{
	KindHeart,
	KindCircle,
	KindDouble,
	KindSpiral,
	KindStar,
	KindChrysanthemum,
	KindNormal,
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsFirework 是否为可发射的烟花类型
func (k Kind) IsFirework() bool {
	return k >= KindNormal && k <= KindChrysanthemum
}

// ParseKind 解析类型名（大小写不敏感）
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range kindNames {
		if s == n {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// MarshalText 用于 YAML/flag 输出
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText 用于 YAML/flag 输入
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Stage 粒子生命周期阶段
type Stage int

const (
	// StageAscending 上升中（尚未到达爆炸高度）
	StageAscending Stage = iota
	// StageExploded 已爆炸，按角度和速度向外扩散
	StageExploded
)

func (s Stage) String() string {
	switch s {
	case StageAscending:
		return "ascending"
	case StageExploded:
		return "exploded"
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// TrailPayload 发射尾迹专属数据
type TrailPayload struct {
	FadeSpeed float64 // 每帧 alpha 线性衰减量
	Sparkle   bool    // 是否闪烁（每帧 alpha 随机乘以 [0.9,1.0)）
	GlowSize  float64 // 光晕半径（像素）
}

// SpiralPayload 螺旋粒子专属数据
type SpiralPayload struct {
	Spin float64 // 角速度（弧度/帧）
}

// BurstPayload 可触发火花的爆炸粒子
// 每个烟花只有一个 Leader，到达顶点时触发一次火花爆发
type BurstPayload struct {
	Leader bool
}

// SparklePayload 火花/余烬粒子
type SparklePayload struct {
	Ember bool // 由菊花粒子掉落的余烬（而非顶点火花）
}

// PointerPayload 指针爱心：自带速度和旋转
type PointerPayload struct {
	VX, VY   float64 // 速度（像素/帧）
	Rotation float64 // 弧度
}

// Particle 单个烟花粒子
//
// 纯数据记录，不包含行为；由 ParticleSystem 更新，由 RenderSystem 绘制。
// 类型专属字段通过 Kind 对应的 payload 指针携带，其余为 nil。
type Particle struct {
	// 位置（表面像素坐标，Y 向下）
	X, Y float64
	// TargetY 爆炸高度，Y <= TargetY 时从上升转为爆炸
	TargetY float64

	// Color 原始十六进制颜色，RGB 为解析后的通道值
	Color string
	RGB   color.RGBA

	Radius   float64 // 基础半径
	Scale    float64 // 图案尺度（生成时已计入速度/半径）
	Angle    float64 // 运动方向（弧度）
	Velocity float64 // 速率（像素/帧，按 60fps 归一化）
	Alpha    float64 // 透明度 [0,1]

	Stage Stage
	Kind  Kind

	Trail   *TrailPayload
	Spiral  *SpiralPayload
	Burst   *BurstPayload
	Sparkle *SparklePayload
	Pointer *PointerPayload
}

// IsLeader 是否是本次爆炸的火花触发粒子
func (p *Particle) IsLeader() bool {
	return p.Burst != nil && p.Burst.Leader
}
