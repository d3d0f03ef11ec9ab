// Package main runs the fireworks show in a terminal using tcell.
//
// Usage:
//
//	go run ./cmd/fireworks-term [flags]
//
// Flags:
//
//	--config <path>    YAML config overlaid on the defaults
//	--profile <name>   built-in profile (rich, classic)
//	--scale <n>        logical pixels per terminal pixel (default 8)
//	--fps <n>          frame rate (default 60)
//	--verbose          log to stderr
//
// Controls:
//
//	Mouse Click  - launch at the cursor
//	Mouse Move   - trail of hearts behind the pointer
//	Space        - launch at a random position
//	P            - pause
//	R            - clear
//	Q/Escape     - quit
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/decker502/fireworks/pkg/components"
	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/render/termsurface"
	"github.com/decker502/fireworks/pkg/show"
	"github.com/gdamore/tcell/v2"
)

var (
	configFlag  = flag.String("config", "", "YAML config file overlaid on the defaults")
	profileFlag = flag.String("profile", config.DefaultProfile, "built-in profile")
	scaleFlag   = flag.Float64("scale", 8, "logical pixels per terminal pixel")
	fpsFlag     = flag.Int("fps", 60, "frames per second")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// termHost 终端宿主：事件处理和帧推进
type termHost struct {
	screen  tcell.Screen
	surface *termsurface.Surface
	show    *show.Show
	clock   *show.MonotonicClock
	rng     *rand.Rand

	button1          bool // 上一个鼠标事件时左键是否按下
	lastCol, lastRow int
}

func newTermHost(screen tcell.Screen, cfg *config.Config, scale float64, opts ...show.Option) (*termHost, error) {
	h := &termHost{
		screen:  screen,
		surface: termsurface.New(screen, scale),
		show:    show.NewShow(cfg, opts...),
		clock:   show.NewMonotonicClock(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		lastCol: -1,
		lastRow: -1,
	}
	w, ht := h.surface.Size()
	if err := h.show.Start(w, ht); err != nil {
		return nil, fmt.Errorf("terminal %dx%d: %w", w, ht, err)
	}
	return h, nil
}

// handleEvent 处理一个终端事件，返回 false 表示退出
func (h *termHost) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'p', 'P':
			h.show.SetPaused(!h.show.Paused())
		case 'r', 'R':
			h.show.Clear()
		case ' ':
			w, _ := h.surface.Size()
			h.show.LaunchAt(components.KindTrail, float64(h.rng.Intn(max(w, 1))), -1)
		}

	case *tcell.EventMouse:
		col, row := ev.Position()
		x, y := h.cellToLogical(col, row)
		// 只在按下的那一刻发射，拖动时不重复
		pressed := ev.Buttons()&tcell.Button1 != 0
		if pressed && !h.button1 {
			h.show.LaunchAt(components.KindTrail, x, y)
		}
		h.button1 = pressed
		if col != h.lastCol || row != h.lastRow {
			h.lastCol, h.lastRow = col, row
			h.show.EmitPointerTrail(x, y)
		}

	case *tcell.EventResize:
		h.screen.Sync()
		h.surface.Resize()
		h.show.Resize(h.surface.Size())
	}
	return true
}

// cellToLogical 单元格中心（上半像素）对应的逻辑像素坐标
func (h *termHost) cellToLogical(col, row int) (float64, float64) {
	scale := h.surface.Scale()
	return (float64(col) + 0.5) * scale, (float64(row)*2 + 1) * scale
}

// frame 推进并绘制一帧
func (h *termHost) frame() {
	h.show.Frame(h.clock.Now())
	h.show.Draw(h.surface)
	for {
		select {
		case err := <-h.show.Errors():
			log.Printf("[Term] %v", err)
		default:
			return
		}
	}
}

func (h *termHost) run(fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !h.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			h.frame()
		}
	}
}

func loadConfig(path, profile string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadProfile(profile)
}

func main() {
	flag.Parse()

	// 终端被 tcell 占用，日志只在 --verbose 时写到 stderr
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfig(*configFlag, *profileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.HideCursor()

	host, err := newTermHost(screen, cfg, *scaleFlag)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	host.run(*fpsFlag)
	host.show.Stop()
	screen.Fini()
}
