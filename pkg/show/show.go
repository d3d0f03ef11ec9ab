// Package show 组装烟花表演：粒子池、发射定时器、帧时钟和各系统
//
// Show 不持有任何全局状态，也不启动自己的渲染循环；宿主（ebiten、终端、
// 帧缓冲、快照工具）在自己的循环里依次调用 Frame 和 Draw。所有粒子池修改
// 都发生在调用 Frame 的 goroutine 中，定时器 goroutine 只向通道投递触发。
package show

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/entities"
	"github.com/decker502/fireworks/pkg/pool"
	"github.com/decker502/fireworks/pkg/render"
	"github.com/decker502/fireworks/pkg/systems"
)

// ErrSurfaceUnavailable 绘制表面不可用（尺寸为 0 或无法打开）
var ErrSurfaceUnavailable = errors.New("surface unavailable")

const defaultErrorBuffer = 16

// Option 配置 Show
type Option func(*Show)

// WithRand 指定随机数源（测试中用固定种子）
func WithRand(rng *rand.Rand) Option {
	return func(s *Show) { s.rng = rng }
}

// WithTimer 指定发射定时器（默认 TickerTimer）
func WithTimer(t RepeatingTimer) Option {
	return func(s *Show) { s.timer = t }
}

// WithErrorBuffer 设置错误通道容量，满时新错误被丢弃
func WithErrorBuffer(n int) Option {
	return func(s *Show) {
		if n > 0 {
			s.errs = make(chan error, n)
		}
	}
}

// Stats 调试面板数据
type Stats struct {
	Particles     int
	MaxParticles  int
	Launched      int     // 累计定时发射次数
	Removed       int     // 累计移除粒子数
	DroppedErrors int     // 因通道已满而丢弃的错误数
	TimeScale     float64 // 最近一帧的时间比例
}

// Show 一场烟花表演
type Show struct {
	cfg *config.Config
	rng *rand.Rand

	pool      *pool.Pool
	factory   *entities.FireworkFactory
	particles *systems.ParticleSystem
	spawner   *systems.FireworkSpawnSystem
	renderer  *systems.RenderSystem

	clock *FrameClock
	timer RepeatingTimer
	errs  chan error

	running bool
	paused  bool
	stats   Stats

	now            time.Duration // 最近一次 Frame 的时钟读数
	lastPointer    time.Duration
	pointerEmitted bool
}

// NewShow 创建表演；cfg 应已通过 Validate，为 nil 时使用默认配置
func NewShow(cfg *config.Config, opts ...Option) *Show {
	if cfg == nil {
		cfg = config.Default()
		_ = cfg.Validate()
	}
	s := &Show{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.timer == nil {
		s.timer = NewTickerTimer()
	}
	if s.errs == nil {
		s.errs = make(chan error, defaultErrorBuffer)
	}

	s.pool = pool.New(cfg.MaxParticles)
	s.factory = entities.NewFireworkFactory(s.pool, cfg, s.rng, s.report)
	s.particles = systems.NewParticleSystem(s.pool, cfg, s.factory, s.rng)
	s.spawner = systems.NewFireworkSpawnSystem(s.pool, cfg, s.factory, s.rng)
	s.renderer = systems.NewRenderSystem(s.pool, cfg)
	s.clock = NewFrameClock(cfg.Physics.TargetFrameMs, cfg.Physics.MaxTimeScale)
	return s
}

// Start 按表面尺寸启动发射定时器
// 尺寸无效时返回包装 ErrSurfaceUnavailable 的错误，表演保持停止状态
func (s *Show) Start(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("start show on %dx%d surface: %w", width, height, ErrSurfaceUnavailable)
	}
	s.spawner.SetBounds(width, height)
	if s.running {
		return nil
	}
	s.clock.Reset()
	s.timer.Start(s.interval())
	s.running = true
	log.Printf("[Show] 开始: profile=%s, %dx%d, 发射间隔 %v, 粒子上限 %d",
		s.cfg.Profile, width, height, s.interval(), s.cfg.MaxParticles)
	return nil
}

// Stop 停止发射定时器；之后的 Frame 调用不做任何事
func (s *Show) Stop() {
	if !s.running {
		return
	}
	s.timer.Stop()
	s.running = false
	log.Printf("[Show] 停止: 存活粒子 %d", s.pool.Len())
}

// Running 是否已启动
func (s *Show) Running() bool { return s.running }

// Resize 更新之后发射使用的尺寸，已在飞行中的粒子不受影响
func (s *Show) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.spawner.SetBounds(width, height)
}

// Frame 推进一帧：处理待发射的定时触发，再更新所有粒子
// now 为单调递增的宿主时钟读数（见 MonotonicClock）
func (s *Show) Frame(now time.Duration) {
	if !s.running {
		return
	}
	s.now = now
	ts := s.clock.Advance(now)
	s.stats.TimeScale = ts

	s.drainTicks()
	if s.paused || ts <= 0 {
		return
	}
	s.stats.Removed += s.particles.Update(ts)
}

func (s *Show) drainTicks() {
	for {
		select {
		case <-s.timer.C():
			if s.paused {
				continue
			}
			if _, ok := s.spawner.Tick(); ok {
				s.stats.Launched++
			}
		default:
			return
		}
	}
}

// Draw 把当前粒子绘制到表面，返回绘制的粒子数
func (s *Show) Draw(surface render.Surface) int {
	return s.renderer.Draw(surface)
}

// LaunchAt 立即在 x 处发射（宿主输入）；kind 不可发射时随机选择，
// apexY < 0 时随机爆炸高度。返回插入的粒子数。
func (s *Show) LaunchAt(kind components.Kind, x, apexY float64) int {
	return s.spawner.LaunchAt(kind, x, apexY)
}

// EmitPointerTrail 指针移动到 (x, y) 时生成一颗爱心
// 两次生成至少间隔 pointerTrail.intervalMs（按最近一帧的时钟计）；
// 未启动、暂停、功能关闭或池满时返回 false。
func (s *Show) EmitPointerTrail(x, y float64) bool {
	pc := s.cfg.PointerTrail
	if !s.running || s.paused || !pc.Enabled {
		return false
	}
	interval := time.Duration(pc.IntervalMs * float64(time.Millisecond))
	if s.pointerEmitted && s.now-s.lastPointer < interval {
		return false
	}
	if !s.factory.CreatePointerHeart(x, y) {
		return false
	}
	s.lastPointer = s.now
	s.pointerEmitted = true
	return true
}

// SetPaused 暂停时粒子冻结、定时触发被丢弃，仍可绘制
func (s *Show) SetPaused(paused bool) {
	if s.paused != paused {
		log.Printf("[Show] 暂停=%v", paused)
	}
	s.paused = paused
}

// Paused 是否暂停
func (s *Show) Paused() bool { return s.paused }

// Clear 移除所有粒子
func (s *Show) Clear() {
	s.pool.Reset()
}

// Errors 生成过程中的非致命错误（调色板颜色解析失败等）
// 通道有缓冲，满时新错误被丢弃并计入 Stats.DroppedErrors
func (s *Show) Errors() <-chan error { return s.errs }

func (s *Show) report(err error) {
	select {
	case s.errs <- err:
	default:
		s.stats.DroppedErrors++
	}
}

// Pool 粒子池（只读使用）
func (s *Show) Pool() *pool.Pool { return s.pool }

// Config 当前配置
func (s *Show) Config() *config.Config { return s.cfg }

// Stats 返回当前统计
func (s *Show) Stats() Stats {
	st := s.stats
	st.Particles = s.pool.Len()
	st.MaxParticles = s.pool.Cap()
	return st
}

// SetConfig 运行时切换配置（如切换 profile）
// 已存在的粒子保留，从下一帧起按新参数更新；新上限小于当前粒子数时
// 最旧的粒子立即移除，计入 Stats.Removed。
func (s *Show) SetConfig(cfg *config.Config) {
	s.cfg = cfg
	if evicted := s.pool.SetMax(cfg.MaxParticles); evicted > 0 {
		s.stats.Removed += evicted
		log.Printf("[Show] 新上限 %d，移除最旧粒子 %d 个", cfg.MaxParticles, evicted)
	}
	s.factory.SetConfig(cfg)
	s.particles.SetConfig(cfg)
	s.spawner.SetConfig(cfg)
	s.renderer.SetConfig(cfg)
	s.clock.Configure(cfg.Physics.TargetFrameMs, cfg.Physics.MaxTimeScale)
	if s.running {
		s.timer.Start(s.interval())
	}
	log.Printf("[Show] 切换配置: %s", cfg.Profile)
}

func (s *Show) interval() time.Duration {
	return time.Duration(s.cfg.SpawnIntervalMs * float64(time.Millisecond))
}
