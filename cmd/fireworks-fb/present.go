// Package main runs the fireworks show on a Linux framebuffer (/dev/fb0).
//
// The show is drawn into an offscreen logical canvas and scaled onto the
// device every frame, so the simulation keeps its pixel units whatever the
// panel resolution is.
//
// Usage:
//
//	fireworks-fb [--device /dev/fb0] [--width 640] [--height 360] [--filter nearest|bilinear]
package main

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"log"
	"time"

	"github.com/decker502/fireworks/pkg/render"
	"github.com/decker502/fireworks/pkg/show"
	xdraw "golang.org/x/image/draw"
)

// scalerFor 返回缩放算法
func scalerFor(name string) (xdraw.Scaler, error) {
	switch name {
	case "", "nearest":
		return xdraw.NearestNeighbor, nil
	case "bilinear":
		return xdraw.ApproxBiLinear, nil
	case "catmullrom":
		return xdraw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown filter %q (nearest, bilinear, catmullrom)", name)
}

// present 把逻辑画布缩放到输出设备
func present(dst draw.Image, canvas *image.RGBA, scaler xdraw.Scaler) {
	if dst.Bounds().Size() == canvas.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), canvas, canvas.Bounds().Min, draw.Src)
		return
	}
	scaler.Scale(dst, dst.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
}

// fbHost 帧缓冲宿主
type fbHost struct {
	dst     draw.Image
	surface *render.ImageSurface
	show    *show.Show
	scaler  xdraw.Scaler
	clock   *show.MonotonicClock
}

func newFBHost(dst draw.Image, s *show.Show, width, height int, scaler xdraw.Scaler) (*fbHost, error) {
	if b := dst.Bounds(); b.Empty() {
		return nil, fmt.Errorf("framebuffer %v: %w", b, show.ErrSurfaceUnavailable)
	}
	surface := render.NewImageSurface(width, height)
	if err := s.Start(surface.Size()); err != nil {
		return nil, err
	}
	return &fbHost{
		dst:     dst,
		surface: surface,
		show:    s,
		scaler:  scaler,
		clock:   show.NewMonotonicClock(),
	}, nil
}

func (h *fbHost) frame() {
	h.show.Frame(h.clock.Now())
	h.show.Draw(h.surface)
	present(h.dst, h.surface.Image(), h.scaler)
	for {
		select {
		case err := <-h.show.Errors():
			log.Printf("[FB] %v", err)
		default:
			return
		}
	}
}

// run 按固定帧率绘制直到 ctx 结束
func (h *fbHost) run(ctx context.Context, fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()
	lastLog := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.frame()
			if time.Since(lastLog) > 5*time.Second {
				st := h.show.Stats()
				log.Printf("[FB] heartbeat: particles=%d/%d launched=%d", st.Particles, st.MaxParticles, st.Launched)
				lastLog = time.Now()
			}
		}
	}
}
