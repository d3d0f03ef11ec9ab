package scenes

import (
	"github.com/decker502/fireworks/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

var (
	_ game.Scene     = (*FireworksScene)(nil)
	_ game.Resizable = (*FireworksScene)(nil)
	_ game.Stoppable = (*FireworksScene)(nil)
)
