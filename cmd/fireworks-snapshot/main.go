// Package main renders a fireworks show headlessly and writes it to disk.
//
// A .png output holds the last frame; a .gif output holds every --every-th
// frame as an animation. Simulated time advances by one 60fps frame per step
// and launches fire at the configured spawn interval, so the same --seed
// always produces the same image.
//
// Usage:
//
//	go run ./cmd/fireworks-snapshot --frames 240 --out show.gif --every 3
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/render"
	"github.com/decker502/fireworks/pkg/show"
	xdraw "golang.org/x/image/draw"
)

var (
	configFlag  = flag.String("config", "", "YAML config file overlaid on the defaults")
	profileFlag = flag.String("profile", config.DefaultProfile, "built-in profile")
	widthFlag   = flag.Int("width", config.DefaultWidth, "surface width")
	heightFlag  = flag.Int("height", config.DefaultHeight, "surface height")
	framesFlag  = flag.Int("frames", 180, "number of simulated frames")
	seedFlag    = flag.Int64("seed", 1, "random seed")
	outFlag     = flag.String("out", "fireworks.png", "output file (.png or .gif)")
	scaleFlag   = flag.Float64("scale", 1, "output scale factor")
	everyFlag   = flag.Int("every", 4, "gif: keep one frame out of every N")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

// frameStep 一帧模拟时间（60fps）
const frameStep = 16670 * time.Microsecond

type options struct {
	Width, Height int
	Frames        int
	Seed          int64
	Every         int // 每隔多少帧回调一次 capture，<=0 表示只回调最后一帧
}

// simulate 无窗口运行表演，按 Every 回调 capture
func simulate(cfg *config.Config, opts options, capture func(frame int, img *image.RGBA)) (show.Stats, error) {
	timer := show.NewManualTimer()
	s := show.NewShow(cfg, show.WithTimer(timer), show.WithRand(rand.New(rand.NewSource(opts.Seed))))
	if err := s.Start(opts.Width, opts.Height); err != nil {
		return show.Stats{}, err
	}
	defer s.Stop()

	surface := render.NewImageSurface(opts.Width, opts.Height)
	interval := timer.Interval()
	var now, nextTick time.Duration
	nextTick = interval

	for i := 1; i <= opts.Frames; i++ {
		now += frameStep
		if interval > 0 && now >= nextTick {
			timer.Fire()
			nextTick += interval
		}
		s.Frame(now)

		last := i == opts.Frames
		if last || (opts.Every > 0 && i%opts.Every == 0) {
			s.Draw(surface)
			capture(i, surface.Image())
		}

		for drained := false; !drained; {
			select {
			case err := <-s.Errors():
				log.Printf("[Snapshot] %v", err)
			default:
				drained = true
			}
		}
	}
	return s.Stats(), nil
}

// scaleImage 按比例缩放（CatmullRom），factor 为 1 时返回副本
func scaleImage(src *image.RGBA, factor float64) *image.RGBA {
	b := src.Bounds()
	w := max(int(float64(b.Dx())*factor+0.5), 1)
	h := max(int(float64(b.Dy())*factor+0.5), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// paletted 把 RGBA 帧量化到 Plan9 调色板
func paletted(img *image.RGBA) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), img, img.Bounds().Min)
	return p
}

// encodeGIF 写入循环播放的动画，delay 单位为 1/100 秒
func encodeGIF(w io.Writer, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("encode gif: no frames")
	}
	anim := &gif.GIF{
		Image: frames,
		Delay: make([]int, len(frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}
	return gif.EncodeAll(w, anim)
}

// renderTo 运行模拟并把结果编码到 w；format 为 "png" 或 "gif"
func renderTo(w io.Writer, format string, cfg *config.Config, opts options, scale float64) (show.Stats, error) {
	switch format {
	case "png":
		var last *image.RGBA
		opts.Every = 0
		stats, err := simulate(cfg, opts, func(_ int, img *image.RGBA) {
			last = scaleImage(img, scale)
		})
		if err != nil {
			return stats, err
		}
		if last == nil {
			return stats, fmt.Errorf("render png: no frame captured (frames=%d)", opts.Frames)
		}
		return stats, png.Encode(w, last)

	case "gif":
		var frames []*image.Paletted
		stats, err := simulate(cfg, opts, func(_ int, img *image.RGBA) {
			frames = append(frames, paletted(scaleImage(img, scale)))
		})
		if err != nil {
			return stats, err
		}
		delay := max(int(float64(max(opts.Every, 1))*frameStep.Seconds()*100+0.5), 1)
		return stats, encodeGIF(w, frames, delay)
	}
	return show.Stats{}, fmt.Errorf("unsupported output format %q (png, gif)", format)
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	var cfg *config.Config
	var err error
	if *configFlag != "" {
		cfg, err = config.Load(*configFlag)
	} else {
		cfg, err = config.LoadProfile(*profileFlag)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *framesFlag <= 0 || *scaleFlag <= 0 {
		fmt.Fprintln(os.Stderr, "--frames and --scale must be positive")
		os.Exit(2)
	}

	f, err := os.Create(*outFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	opts := options{Width: *widthFlag, Height: *heightFlag, Frames: *framesFlag, Seed: *seedFlag, Every: *everyFlag}
	stats, err := renderTo(f, formatOf(*outFlag), cfg, opts, *scaleFlag)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(*outFlag)
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s: %d frames, %d launched, %d particles live\n",
		*outFlag, opts.Frames, stats.Launched, stats.Particles)
}
