package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one fireworks display bound to a profile.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update advances the scene by the elapsed wall time in seconds.
	// A non-nil error terminates the game loop.
	Update(deltaTime float64) error

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，窗口逻辑尺寸变化时由 SceneManager 通知场景
type Resizable interface {
	Resize(width, height int)
}

// Stoppable 是一个可选接口，场景被替换或程序退出时调用 Stop 释放定时器
type Stoppable interface {
	Stop()
}
