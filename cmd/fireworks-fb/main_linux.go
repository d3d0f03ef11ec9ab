package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/decker502/fireworks/pkg/config"
	"github.com/decker502/fireworks/pkg/show"
	fb "github.com/gonutz/framebuffer"
)

var (
	deviceFlag  = flag.String("device", "/dev/fb0", "framebuffer device")
	configFlag  = flag.String("config", "", "YAML config file overlaid on the defaults")
	profileFlag = flag.String("profile", config.DefaultProfile, "built-in profile")
	widthFlag   = flag.Int("width", 640, "logical canvas width")
	heightFlag  = flag.Int("height", 360, "logical canvas height")
	filterFlag  = flag.String("filter", "nearest", "scaling filter: nearest, bilinear, catmullrom")
	fpsFlag     = flag.Int("fps", 30, "frames per second")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}
	fatal := func(format string, args ...interface{}) {
		log.SetOutput(os.Stderr)
		log.Fatalf(format, args...)
	}

	var cfg *config.Config
	var err error
	if *configFlag != "" {
		cfg, err = config.Load(*configFlag)
	} else {
		cfg, err = config.LoadProfile(*profileFlag)
	}
	if err != nil {
		fatal("config: %v", err)
	}
	scaler, err := scalerFor(*filterFlag)
	if err != nil {
		fatal("%v", err)
	}

	dev, err := fb.Open(*deviceFlag)
	if err != nil {
		fatal("open %s: %v", *deviceFlag, err)
	}
	defer dev.Close()
	log.Printf("[FB] framebuffer open, bounds=%dx%d", dev.Bounds().Dx(), dev.Bounds().Dy())

	s := show.NewShow(cfg)
	host, err := newFBHost(dev, s, *widthFlag, *heightFlag, scaler)
	if err != nil {
		dev.Close()
		fatal("%v", err)
	}
	defer s.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	host.run(ctx, *fpsFlag)
	log.Printf("[FB] stopped")
}
