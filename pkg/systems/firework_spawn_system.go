package systems

import (
	"math/rand"

	"github.com/decker502/fireworks/internal/particle"
	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/pool"
)

// Launcher 生成一个烟花（由 entities.FireworkFactory 实现）
type Launcher interface {
	Launch(kind components.Kind, originX, originY, apexY float64) int
}

// FireworkSpawnSystem 按权重随机发射烟花
//
// 每次定时器触发调用一次 Tick。池占用达到 guard 阈值时跳过本次发射，
// 给已有粒子留出消亡空间；发射位置每次都按当前表面尺寸计算。
type FireworkSpawnSystem struct {
	pool     *pool.Pool
	launcher Launcher
	rng      *rand.Rand

	width, height float64

	guard    int
	weights  config.TypeWeights
	apexBand particle.Range
}

// NewFireworkSpawnSystem 创建发射系统；调用 SetBounds 前不会发射
func NewFireworkSpawnSystem(p *pool.Pool, cfg *config.Config, launcher Launcher, rng *rand.Rand) *FireworkSpawnSystem {
	s := &FireworkSpawnSystem{
		pool:     p,
		launcher: launcher,
		rng:      rng,
	}
	s.SetConfig(cfg)
	return s
}

// SetConfig 切换权重表、发射阈值和爆炸高度范围
func (s *FireworkSpawnSystem) SetConfig(cfg *config.Config) {
	s.guard = cfg.GuardThreshold()
	s.weights = cfg.TypeWeights
	s.apexBand = cfg.ApexBand
}

// SetBounds 更新表面尺寸，只影响之后的发射
func (s *FireworkSpawnSystem) SetBounds(width, height int) {
	s.width = float64(width)
	s.height = float64(height)
}

// Bounds 当前发射区域
func (s *FireworkSpawnSystem) Bounds() (width, height int) {
	return int(s.width), int(s.height)
}

// Tick 尝试发射一个随机烟花
// 池占用达到阈值、尺寸无效或权重表为空时返回 false
func (s *FireworkSpawnSystem) Tick() (components.Kind, bool) {
	if s.pool.Len() >= s.guard {
		return 0, false
	}
	if s.width <= 0 || s.height <= 0 {
		return 0, false
	}
	kind, ok := PickWeighted(s.weights, s.rng.Float64())
	if !ok {
		return 0, false
	}
	x := s.rng.Float64() * s.width
	s.launcher.Launch(kind, x, s.height, s.randomApex())
	return kind, true
}

// LaunchAt 在 x 处发射指定类型的烟花（宿主输入：点击、空格）
// kind 不可发射时按权重随机选择；apexY < 0 时在爆炸高度范围内随机
// 不受 guard 阈值限制，只受池上限限制。返回插入的粒子数。
func (s *FireworkSpawnSystem) LaunchAt(kind components.Kind, x, apexY float64) int {
	if s.height <= 0 {
		return 0
	}
	if !kind.IsFirework() {
		var ok bool
		if kind, ok = PickWeighted(s.weights, s.rng.Float64()); !ok {
			return 0
		}
	}
	if apexY < 0 {
		apexY = s.randomApex()
	}
	if apexY > s.height {
		apexY = s.height
	}
	return s.launcher.Launch(kind, x, s.height, apexY)
}

func (s *FireworkSpawnSystem) randomApex() float64 {
	return s.apexBand.Random(s.rng) * s.height
}

// PickWeighted 累加权重，返回第一个累计值超过 u 的类型
//
// u 应在 [0, total) 内；由于浮点舍入 u 可能不小于总和，
// 此时返回最后一个权重为正的类型。表为空或全为 0 时返回 false。
func PickWeighted(table config.TypeWeights, u float64) (components.Kind, bool) {
	cumulative := 0.0
	last := -1
	for i, e := range table {
		if e.Weight <= 0 {
			continue
		}
		cumulative += e.Weight
		last = i
		if u < cumulative {
			return e.Kind, true
		}
	}
	if last < 0 {
		return 0, false
	}
	return table[last].Kind, true
}
