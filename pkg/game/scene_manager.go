package game

import (
	"errors"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoSceneFactory 未设置场景工厂
var ErrNoSceneFactory = errors.New("scene factory not set")

// SceneFactory 场景工厂函数类型
// 按 profile 名称创建烟花场景，避免 game 包依赖 scenes 包
type SceneFactory func(profile string) (Scene, error)

// SceneManager controls which scene is active.
// Only the current scene's Update and Draw are called.
type SceneManager struct {
	currentScene   Scene
	currentProfile string
	sceneFactory   SceneFactory

	width, height int
}

// NewSceneManager creates a manager with no active scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene, stopping the previous one.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if sm.currentScene != nil && sm.currentScene != scene {
		if s, ok := sm.currentScene.(Stoppable); ok {
			s.Stop()
		}
	}
	sm.currentScene = scene
	if r, ok := scene.(Resizable); ok && sm.width > 0 && sm.height > 0 {
		r.Resize(sm.width, sm.height)
	}
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentProfile 当前场景使用的 profile 名称
func (sm *SceneManager) CurrentProfile() string {
	return sm.currentProfile
}

// SetCurrentProfile 记录当前场景已原地切换到的 profile（不重建场景）
func (sm *SceneManager) SetCurrentProfile(profile string) {
	sm.currentProfile = profile
}

// LoadProfile 通过工厂创建指定 profile 的场景并切换过去
// 创建失败时保留当前场景
func (sm *SceneManager) LoadProfile(profile string) error {
	log.Printf("[SceneManager] 加载配置: %s", profile)

	if sm.sceneFactory == nil {
		return ErrNoSceneFactory
	}
	scene, err := sm.sceneFactory(profile)
	if err != nil {
		return fmt.Errorf("create scene for profile %q: %w", profile, err)
	}
	sm.SwitchTo(scene)
	sm.currentProfile = profile
	log.Printf("[SceneManager] 成功切换到配置: %s", profile)
	return nil
}

// Resize 记录逻辑尺寸并通知当前场景
func (sm *SceneManager) Resize(width, height int) {
	if width == sm.width && height == sm.height {
		return
	}
	sm.width, sm.height = width, height
	if r, ok := sm.currentScene.(Resizable); ok {
		r.Resize(width, height)
	}
}

// Update updates the currently active scene.
func (sm *SceneManager) Update(deltaTime float64) error {
	if sm.currentScene == nil {
		return nil
	}
	return sm.currentScene.Update(deltaTime)
}

// Draw renders the currently active scene.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

// Stop 停止当前场景（程序退出时调用）
func (sm *SceneManager) Stop() {
	if s, ok := sm.currentScene.(Stoppable); ok {
		s.Stop()
	}
}
