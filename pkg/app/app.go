// Package app 提供烟花应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/game"
	"github.com/decker502/fireworks/pkg/scenes"
	"github.com/decker502/fireworks/pkg/show"
	"github.com/decker502/fireworks/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath YAML 配置文件（覆盖在默认配置之上），为空则使用内置 profile
	ConfigPath string
	// Profile 内置配置名（rich / classic），ConfigPath 非空时忽略；
	// 为空时桌面端使用 rich，移动端使用粒子更少的 classic
	Profile string
	// Width/Height 初始窗口尺寸
	Width  int
	Height int
}

// App 是烟花应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	clock        *show.MonotonicClock
	lastTick     time.Duration
	rng          *rand.Rand

	profiles []string                  // Tab 循环顺序
	configs  map[string]*config.Config // profile 名 → 已校验的配置

	cursorX, cursorY int
	touches          map[ebiten.TouchID]image.Point // 上一帧的触摸位置

	width, height            int
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if cfg.Width <= 0 {
		cfg.Width = config.DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = config.DefaultHeight
	}

	configs, profiles, start, err := loadConfigs(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		sceneManager: game.NewSceneManager(),
		clock:        show.NewMonotonicClock(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		profiles:     profiles,
		configs:      configs,
		touches:      make(map[ebiten.TouchID]image.Point),
		width:        cfg.Width,
		height:       cfg.Height,
		verbose:      cfg.Verbose,
	}
	a.sceneManager.SetSceneFactory(func(profile string) (game.Scene, error) {
		c, ok := a.configs[profile]
		if !ok {
			return nil, fmt.Errorf("%w: %q", config.ErrUnknownProfile, profile)
		}
		return scenes.NewFireworksScene(c), nil
	})
	a.sceneManager.Resize(cfg.Width, cfg.Height)
	if err := a.sceneManager.LoadProfile(start); err != nil {
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	log.Printf("[App] 启动配置: %s, 可切换: %v", start, profiles)
	return a, nil
}

// loadConfigs 加载所有内置 profile；指定了配置文件时额外加入并作为起始配置
func loadConfigs(cfg Config) (map[string]*config.Config, []string, string, error) {
	configs := make(map[string]*config.Config)
	profiles := config.Profiles()
	for _, name := range profiles {
		c, err := config.LoadProfile(name)
		if err != nil {
			return nil, nil, "", fmt.Errorf("内置配置 %s 加载失败: %w", name, err)
		}
		configs[name] = c
	}

	if cfg.ConfigPath != "" {
		c, err := config.Load(cfg.ConfigPath)
		if err != nil {
			return nil, nil, "", fmt.Errorf("配置文件加载失败: %w", err)
		}
		name := "file:" + cfg.ConfigPath
		c.Profile = name
		configs[name] = c
		profiles = append([]string{name}, profiles...)
		return configs, profiles, name, nil
	}

	start := cfg.Profile
	if start == "" {
		start = defaultProfile()
	}
	if _, ok := configs[start]; !ok {
		return nil, nil, "", fmt.Errorf("%w: %q (available: %v)", config.ErrUnknownProfile, start, profiles)
	}
	return configs, profiles, start, nil
}

// MobileProfile 移动端默认配置
const MobileProfile = "classic"

func defaultProfile() string {
	if utils.IsMobile() {
		return MobileProfile
	}
	return config.DefaultProfile
}

// launchKeys 数字键选择点击发射的烟花类型，0 为随机
var launchKeys = map[ebiten.Key]components.Kind{
	ebiten.Key0: components.KindTrail,
	ebiten.Key1: components.KindNormal,
	ebiten.Key2: components.KindHeart,
	ebiten.Key3: components.KindCircle,
	ebiten.Key4: components.KindDouble,
	ebiten.Key5: components.KindSpiral,
	ebiten.Key6: components.KindStar,
	ebiten.Key7: components.KindChrysanthemum,
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.width, a.height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.width, a.height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if err := a.switchProfile(a.nextProfile()); err != nil {
			log.Printf("[App] 切换配置失败: %v", err)
		}
	}

	if scene, ok := a.sceneManager.GetCurrentScene().(*scenes.FireworksScene); ok {
		a.handleInput(scene)
	}

	now := a.clock.Now()
	deltaTime := (now - a.lastTick).Seconds()
	a.lastTick = now
	return a.sceneManager.Update(deltaTime)
}

func (a *App) handleInput(scene *scenes.FireworksScene) {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		scene.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		scene.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		scene.ToggleOverlay()
	}
	for key, kind := range launchKeys {
		if inpututil.IsKeyJustPressed(key) {
			scene.SetLaunchKind(kind)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		scene.LaunchRandom(a.rng.Intn(max(a.width, 1)))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		scene.LaunchAt(x, y)
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		scene.LaunchAt(x, y)
	}
	a.trackPointer(scene)
}

// trackPointer 光标或触摸点移动时生成指针爱心
func (a *App) trackPointer(scene *scenes.FireworksScene) {
	if x, y := ebiten.CursorPosition(); x != a.cursorX || y != a.cursorY {
		a.cursorX, a.cursorY = x, y
		scene.PointerMoved(x, y)
	}

	ids := ebiten.AppendTouchIDs(nil)
	seen := make(map[ebiten.TouchID]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
		x, y := ebiten.TouchPosition(id)
		pt := image.Pt(x, y)
		if last, ok := a.touches[id]; ok && last != pt {
			scene.PointerMoved(x, y)
		}
		a.touches[id] = pt
	}
	for id := range a.touches {
		if !seen[id] {
			delete(a.touches, id)
		}
	}
}

// switchProfile 切换到指定 profile
// 当前是烟花场景时原地换配置，保留在飞行中的粒子；否则重建场景
func (a *App) switchProfile(name string) error {
	cfg, ok := a.configs[name]
	scene, isFireworks := a.sceneManager.GetCurrentScene().(*scenes.FireworksScene)
	if !ok || !isFireworks {
		return a.sceneManager.LoadProfile(name)
	}
	scene.SetConfig(cfg)
	a.sceneManager.SetCurrentProfile(name)
	log.Printf("[App] 切换配置: %s", name)
	return nil
}

func (a *App) nextProfile() string {
	current := a.sceneManager.CurrentProfile()
	for i, name := range a.profiles {
		if name == current {
			return a.profiles[(i+1)%len(a.profiles)]
		}
	}
	return a.profiles[0]
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 逻辑尺寸与窗口一致，只需用黑色填充并直接绘制
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口，窗口缩放后之后的发射使用新尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !ebiten.IsFullscreen() && outsideWidth > 0 && outsideHeight > 0 {
		a.width, a.height = outsideWidth, outsideHeight
	}
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// GetSceneManager 返回场景管理器（退出时停止定时器）
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
