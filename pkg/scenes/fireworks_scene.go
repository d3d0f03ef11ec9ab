package scenes

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/render/ebitensurface"
	"github.com/decker502/fireworks/pkg/show"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// FireworksScene 在 Ebitengine 窗口中运行一场烟花表演
//
// 场景在第一次拿到有效尺寸后的 Update 中启动表演；
// Update 按累计的真实时间驱动 Show.Frame，Draw 通过批量 Surface 绘制。
type FireworksScene struct {
	show    *show.Show
	surface *ebitensurface.Surface

	now           time.Duration
	width, height int
	started       bool

	overlay    bool
	launchKind components.Kind // 点击发射的类型，KindTrail 表示随机
}

// NewFireworksScene 创建场景；cfg 应已通过 Validate
func NewFireworksScene(cfg *config.Config, opts ...show.Option) *FireworksScene {
	return &FireworksScene{
		show:       show.NewShow(cfg, opts...),
		surface:    ebitensurface.New(),
		launchKind: components.KindTrail,
	}
}

// Update 实现 game.Scene
// 表面尺寸无效时返回包装 show.ErrSurfaceUnavailable 的错误
func (s *FireworksScene) Update(deltaTime float64) error {
	if !s.started {
		if err := s.show.Start(s.width, s.height); err != nil {
			return fmt.Errorf("fireworks scene: %w", err)
		}
		s.started = true
	}

	s.now += time.Duration(deltaTime * float64(time.Second))
	s.show.Frame(s.now)

	for {
		select {
		case err := <-s.show.Errors():
			log.Printf("[FireworksScene] %v", err)
		default:
			return nil
		}
	}
}

// Draw 实现 game.Scene
func (s *FireworksScene) Draw(screen *ebiten.Image) {
	s.surface.SetTarget(screen)
	s.show.Draw(s.surface)

	if s.overlay {
		st := s.show.Stats()
		msg := fmt.Sprintf("profile: %s  TPS: %0.1f  FPS: %0.1f\nparticles: %d/%d  launched: %d  timeScale: %.2f",
			s.show.Config().Profile, ebiten.ActualTPS(), ebiten.ActualFPS(),
			st.Particles, st.MaxParticles, st.Launched, st.TimeScale)
		if s.show.Paused() {
			msg += "\n[paused]"
		}
		msg += "\nlaunch: " + s.launchLabel()
		ebitenutil.DebugPrintAt(screen, msg, 10, 10)
	}
}

// Resize 实现 game.Resizable
func (s *FireworksScene) Resize(width, height int) {
	s.width, s.height = width, height
	s.show.Resize(width, height)
}

// Stop 实现 game.Stoppable
func (s *FireworksScene) Stop() {
	s.show.Stop()
}

// LaunchAt 在点击位置发射：从底部 x 处升空，在 y 处爆炸
func (s *FireworksScene) LaunchAt(x, y int) int {
	return s.show.LaunchAt(s.launchKind, float64(x), float64(y))
}

// LaunchRandom 随机位置和高度发射一个烟花
func (s *FireworksScene) LaunchRandom(x int) int {
	return s.show.LaunchAt(s.launchKind, float64(x), -1)
}

// PointerMoved 指针（鼠标或触摸）移动到 (x, y)，按节流生成爱心
func (s *FireworksScene) PointerMoved(x, y int) bool {
	return s.show.EmitPointerTrail(float64(x), float64(y))
}

// SetConfig 原地切换配置，保留在飞行中的粒子
func (s *FireworksScene) SetConfig(cfg *config.Config) {
	s.show.SetConfig(cfg)
}

// SetLaunchKind 设置点击发射的类型；不可发射的类型表示随机
func (s *FireworksScene) SetLaunchKind(kind components.Kind) {
	s.launchKind = kind
	log.Printf("[FireworksScene] 点击发射类型: %s", s.launchLabel())
}

// TogglePause 切换暂停
func (s *FireworksScene) TogglePause() {
	s.show.SetPaused(!s.show.Paused())
}

// Clear 清空所有粒子
func (s *FireworksScene) Clear() {
	s.show.Clear()
}

// ToggleOverlay 切换调试信息
func (s *FireworksScene) ToggleOverlay() {
	s.overlay = !s.overlay
}

// Show 返回底层表演（测试用）
func (s *FireworksScene) Show() *show.Show { return s.show }

func (s *FireworksScene) launchLabel() string {
	if !s.launchKind.IsFirework() {
		return "random"
	}
	return s.launchKind.String()
}
